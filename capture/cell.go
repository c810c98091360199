package capture

// Cell is the storage location a binding names.
//
// Cells carry no lock. Closures that alias a cell share it with the defining scope,
// and concurrent use must be synchronized by the caller.
type Cell struct {
	value   any
	expired bool
}

func NewCell(value any) *Cell {
	return &Cell{
		value: value,
	}
}

func (c *Cell) Load() any {
	return c.value
}

func (c *Cell) Store(value any) {
	c.value = value
}

// Expired reports whether the scope that declared the cell has ended.
func (c *Cell) Expired() bool {
	return c.expired
}

func (c *Cell) expire() {
	c.expired = true
}
