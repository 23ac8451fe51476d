package readings

// Status is the coarse user-facing health of a device. Connectivity and
// data availability are independent axes: a device can hold its network
// heartbeat while its sensor module is unplugged, and collapsing that
// into one boolean would hide an actionable failure from the farmer.
type Status string

const (
	StatusLoading     Status = "loading"
	StatusOffline     Status = "offline"
	StatusSensorIssue Status = "sensor-issue"
	StatusOK          Status = "ok"
)

// Badge returns the display label shown next to a device.
func (s Status) Badge() string {
	switch s {
	case StatusLoading:
		return "Loading"
	case StatusOffline:
		return "Offline"
	case StatusSensorIssue:
		return "Sensor Issue"
	default:
		return "Connected"
	}
}

// Classify reduces raw device state to a Status. Evaluation order
// matters; first match wins. Absence of data is not an error, it
// degrades to offline. Total over every input combination.
func Classify(loading, connected, hasNPK bool) Status {
	switch {
	case loading:
		return StatusLoading
	case !connected:
		return StatusOffline
	case !hasNPK:
		return StatusSensorIssue
	default:
		return StatusOK
	}
}
