// internal/workers/session/reset-session/models.go
package resetsession

type Input struct {
	SessionID string `json:"sessionId"`
	// KeepCriteria leaves the cached questionnaire answers in place so the
	// user restarts the pool without re-answering.
	KeepCriteria bool `json:"keepCriteria,omitempty"`
}

type Output struct {
	ClearedKeys int  `json:"clearedKeys"`
	Reset       bool `json:"reset"`
}
