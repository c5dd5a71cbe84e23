package rules

// System defines the public contract for rule domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Load(data []byte, filename string) (*RuleSet, error)
	Current() (*RuleSet, error)
	Context() (string, error)
	Clear()
}
