package types

// UpsertFailure identifies one record that could not be written.
type UpsertFailure struct {
	ID  string `json:"_id"`
	Err string `json:"error"`
}

// UpsertOutcome summarizes an upsert over a batch. Failures never
// propagate past the batch boundary; the outcome is always returned.
type UpsertOutcome struct {
	Succeeded int             `json:"succeeded"`
	Failed    []UpsertFailure `json:"failed,omitempty"`
}
