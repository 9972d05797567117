package common

// TransitionUserRole is the role name that forces a user's transitions to be
// re-evaluated by the Scheduler Driver even when the current status is
// already Verified.
const TransitionUserRole = "TransitionUser"

// SchedulerPageSize is the fixed page size the Scheduler Driver uses when
// paging through users created in the requested window.
const SchedulerPageSize = 100
