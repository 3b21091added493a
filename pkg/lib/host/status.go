package host

import (
	"github.com/shirou/gopsutil/v3/process"

	"github.com/SanjoDeundiak/extui/pkg/lib"
	"github.com/SanjoDeundiak/extui/pkg/lib/lifecycle"
	"github.com/SanjoDeundiak/extui/pkg/lib/runner"
)

// Status is a snapshot of a Bridge.
type Status struct {
	Descriptor     string
	Variant        Variant
	State          lifecycle.State
	Port           uint16
	PortConfigured bool
	ShowPending    bool

	// Set while a UI process is running and the OS could be queried.
	PID        int
	RSS        uint64
	CPUPercent float64

	LastExit *lib.ExitInfo
}

// Status reports the bridge state and, when the supervisor exposes it,
// resource usage of the running UI.
func (b *Bridge) Status() Status {
	port, configured := b.ctrl.Port()
	st := Status{
		Descriptor:     b.desc.URI,
		Variant:        b.desc.Variant,
		State:          b.ctrl.State(),
		Port:           port,
		PortConfigured: configured,
		ShowPending:    b.ctrl.ShowPending(),
	}

	insp, ok := b.sup.(runner.Inspector)
	if !ok {
		return st
	}
	st.LastExit = insp.LastExit()
	st.PID = insp.PID()
	if st.PID <= 0 {
		return st
	}

	proc, err := process.NewProcess(int32(st.PID))
	if err != nil {
		b.logger.Debug("cannot inspect ui process", "pid", st.PID, "err", err)
		return st
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		st.RSS = mem.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		st.CPUPercent = cpu
	}
	return st
}
