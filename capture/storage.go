package capture

// Storage is the category of a binding.
type Storage uint8

const (
	Local Storage = iota + 1
	Member
	// Global bindings are reachable by name from any body and are never stored in a closure.
	Global
)

var storageNames = [...]string{
	Local:  "local",
	Member: "enclosing-object-member",
	Global: "process-global",
}

func (s Storage) String() string {
	if int(s) < len(storageNames) && storageNames[s] != "" {
		return storageNames[s]
	}
	return "invalid"
}

func (s Storage) Capturable() bool {
	return s == Local || s == Member
}
