package sim

import (
	"sync"

	"widetick/core"
)

// Controller models the interrupt controller. Handlers stand in for the
// interrupt vectors the linker binds on real hardware: they are wired
// with Connect before the peripheral starts and invoked synchronously
// when an enabled line is raised.
type Controller struct {
	mu       sync.Mutex
	enabled  map[core.IRQ]bool
	handlers map[core.IRQ]func()
}

// NewController constructs a controller with all lines masked.
func NewController() *Controller {
	return &Controller{
		enabled:  make(map[core.IRQ]bool),
		handlers: make(map[core.IRQ]func()),
	}
}

// Connect binds the handler for an interrupt line, as the vector table
// does at build time on hardware.
func (c *Controller) Connect(irq core.IRQ, handler func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[irq] = handler
}

// Enable implements core.InterruptController.
func (c *Controller) Enable(irq core.IRQ) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled[irq] = true
}

// dispatch invokes the handler for a raised line if the line is enabled
// and a handler is connected. The controller mutex is released before
// the handler runs so the handler can touch the peripheral.
func (c *Controller) dispatch(irq core.IRQ) {
	c.mu.Lock()
	handler := c.handlers[irq]
	enabled := c.enabled[irq]
	c.mu.Unlock()

	if enabled && handler != nil {
		handler()
	}
}
