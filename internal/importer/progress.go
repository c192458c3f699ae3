package importer

import "time"

// totalPhases is the number of phases one import walks through.
const totalPhases = 14

// Progress is one best-effort progress record, emitted after each phase.
type Progress struct {
	RunID        string
	FileIndex    int
	TotalFiles   int
	FileName     string
	Phase        int
	PhaseName    string
	FileFraction float64
	Elapsed      time.Duration

	// ETA estimates the remaining time for this file from the average
	// phase duration so far.
	ETA time.Duration

	// Speed is the observed import rate in phases per second.
	Speed float64
}

// ProgressFunc receives progress records. Implementations must not block;
// emission failures never fail an import.
type ProgressFunc func(Progress)

var phaseNames = [totalPhases]string{
	"setup",
	"foundation parse",
	"foundation insert",
	"affiliation parse",
	"affiliation insert",
	"unit production",
	"player gameplay",
	"diplomacy",
	"time series",
	"character extended",
	"city extended",
	"tile extended",
	"story events",
	"finalize",
}

// reporter tracks elapsed time for one file and fans records out to the
// optional sink.
type reporter struct {
	sink      ProgressFunc
	runID     string
	fileIndex int
	total     int
	fileName  string
	started   time.Time
}

func newReporter(sink ProgressFunc, runID, fileName string, fileIndex, total int) *reporter {
	return &reporter{
		sink:      sink,
		runID:     runID,
		fileIndex: fileIndex,
		total:     total,
		fileName:  fileName,
		started:   time.Now(),
	}
}

func (r *reporter) phase(n int) {
	if r == nil || r.sink == nil {
		return
	}
	elapsed := time.Since(r.started)
	done := n + 1
	var speed float64
	if elapsed > 0 {
		speed = float64(done) / elapsed.Seconds()
	}
	r.sink(Progress{
		RunID:        r.runID,
		FileIndex:    r.fileIndex,
		TotalFiles:   r.total,
		FileName:     r.fileName,
		Phase:        n,
		PhaseName:    phaseNames[n],
		FileFraction: float64(done) / totalPhases,
		Elapsed:      elapsed,
		ETA:          elapsed / time.Duration(done) * time.Duration(totalPhases-done),
		Speed:        speed,
	})
}
