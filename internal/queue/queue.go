package queue

// DispatchJob is the wire payload of one dispatch trigger. It carries only the
// broadcast id; the worker re-loads everything else from storage.
type DispatchJob struct {
	BroadcastID int `json:"broadcast_id"`
}

// Queue publishes dispatch jobs for asynchronous consumption.
type Queue interface {
	PublishDispatch(broadcastID int) error
	Close() error
}
