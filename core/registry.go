package core

// Unit identifies a hardware counter unit. Units index fixed registry
// slots; value N corresponds to the Nth counter peripheral instance.
type Unit uint8

// MaxUnits is the number of registry slots. Large enough for every part
// family this driver targets (the nRF52 has three RTC units).
const MaxUnits = 4

// Registry associates hardware unit identities with their live
// TimeKeeper instances, so a free-standing interrupt entry point can
// locate the owning driver. Each slot is write-once: it is set during
// Start and never changed or cleared afterwards.
//
// Interrupt vectors should be bound to Dispatch via a closure or a
// per-unit trampoline in platform code; consumers never touch the slots
// directly.
type Registry struct {
	slots [MaxUnits]*TimeKeeper
}

// DefaultRegistry is the process-wide registry firmware builds use.
// Tests construct their own Registry instances instead.
var DefaultRegistry = &Registry{}

// bind records the instance for a unit. Called once from Start.
// Precondition: the slot is empty; double registration of a unit is
// programmer error and is not guarded.
func (r *Registry) bind(u Unit, tk *TimeKeeper) {
	r.slots[u] = tk
}

// Instance returns the registered TimeKeeper for a unit, or nil if the
// unit has not been started.
func (r *Registry) Instance(u Unit) *TimeKeeper {
	return r.slots[u]
}

// MustInstance returns the registered TimeKeeper for a unit and panics
// if the unit has not been started.
func (r *Registry) MustInstance(u Unit) *TimeKeeper {
	tk := r.slots[u]
	if tk == nil {
		panic("widetick: unit not started")
	}
	return tk
}

// Dispatch is the interrupt entry point for a unit's interrupt line. An
// interrupt for a unit with no registered instance is spurious (it can
// only happen before Start completes) and is ignored.
func (r *Registry) Dispatch(u Unit) {
	if tk := r.slots[u]; tk != nil {
		tk.OnInterrupt()
	}
}
