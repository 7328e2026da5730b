package metrickeys

const (
	Prefix = "eagerloop."

	TasksSubmitted = Prefix + "tasks.submitted"
	TasksCompleted = Prefix + "tasks.completed"

	TimersScheduled = Prefix + "timers.scheduled"
	TimersFired     = Prefix + "timers.fired"

	LockContention = Prefix + "lock.contention"

	// Virtual time spent in synchronous work
	ElapsedBusy = Prefix + "time.busy"
)

// Tag names
const (
	// Whether the task was submitted lazily or invoked eagerly
	TaskKind = "kind"
)
