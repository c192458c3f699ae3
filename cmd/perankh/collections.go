// Collections commands for the perankh CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Group matches into named collections",
	RunE:  runCollectionsList,
}

var collectionsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsCreate,
}

var collectionsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionsRename,
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a collection, moving its matches to the default",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsDelete,
}

var collectionsAssignCmd = &cobra.Command{
	Use:   "assign <match-id> <collection-id>",
	Short: "Move a match into a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionsAssign,
}

func init() {
	collectionsCmd.AddCommand(collectionsCreateCmd)
	collectionsCmd.AddCommand(collectionsRenameCmd)
	collectionsCmd.AddCommand(collectionsDeleteCmd)
	collectionsCmd.AddCommand(collectionsAssignCmd)
}

func runCollectionsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cols, err := st.ListCollections()
	if err != nil {
		return err
	}

	if flagJSON {
		out, err := json.MarshalIndent(cols, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMATCHES\tDEFAULT")
	for _, c := range cols {
		def := ""
		if c.IsDefault {
			def = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", c.ID, c.Name, c.MatchCount, def)
	}
	return w.Flush()
}

func runCollectionsCreate(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	col, err := st.CreateCollection(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Created collection %d %q\n", col.ID, col.Name)
	return nil
}

func runCollectionsRename(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "collection")
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.RenameCollection(id, args[1]); err != nil {
		return err
	}
	fmt.Printf("Renamed collection %d to %q\n", id, args[1])
	return nil
}

func runCollectionsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "collection")
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteCollection(id); err != nil {
		return err
	}
	fmt.Printf("Deleted collection %d\n", id)
	return nil
}

func runCollectionsAssign(cmd *cobra.Command, args []string) error {
	matchID, err := parseID(args[0], "match")
	if err != nil {
		return err
	}
	collectionID, err := parseID(args[1], "collection")
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.AssignMatch(matchID, collectionID); err != nil {
		return err
	}
	fmt.Printf("Moved match %d to collection %d\n", matchID, collectionID)
	return nil
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}
