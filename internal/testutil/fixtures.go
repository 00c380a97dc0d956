package testutil

import (
	"time"

	"github.com/roach88/usagelog/internal/usage"
)

// TaskCreated is the creation date of the task in SampleEvents.
var TaskCreated = time.Date(2024, 2, 29, 23, 59, 58, 123000000, time.UTC)

// SampleEvents returns one fully populated event of every kind, in kind order.
// Each call returns fresh records.
func SampleEvents() []usage.Event {
	created := TaskCreated
	return []usage.Event{
		&usage.CommandEvent{CommandID: "org.eclipse.ui.file.save", Count: 4},
		&usage.FileEvent{FilePath: "/proj/src/Main.java", Duration: 1200},
		&usage.JavaEvent{HandleID: "=proj/src<pkg{Main.java[Main", Duration: 800},
		&usage.LaunchEvent{
			LaunchModeID:  "run",
			LaunchTypeID:  "org.eclipse.jdt.launching.localJavaApplication",
			Name:          "Main",
			Count:         1,
			TotalDuration: 3000,
			FilePaths:     usage.NewFileSet("/proj/src/Main.java", "/proj/src/Util.java"),
		},
		&usage.PartEvent{PartID: "org.eclipse.ui.views.ProblemView", Duration: 50},
		&usage.PerspectiveEvent{PerspectiveID: "org.eclipse.jdt.ui.JavaPerspective", Duration: 5000},
		&usage.SessionEvent{Duration: 6000},
		&usage.TaskFileEvent{
			FilePath: "/proj/src/Main.java",
			Task:     &usage.TaskID{HandleID: "local-42", CreationDate: &created},
			Duration: 700,
		},
	}
}
