package sysmon

import (
	"errors"
	"fmt"
	"iter"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// ErrNoCPUTimes is returned when the OS reports no aggregate CPU line.
var ErrNoCPUTimes = errors.New("sysmon: no cpu times reported")

// HostSource reads counters from the local host through gopsutil.
type HostSource struct{}

// NewHostSource creates a Source backed by the running host.
func NewHostSource() *HostSource {
	return &HostSource{}
}

// SystemTimes returns aggregate CPU times. Kernel time is reported the way
// the OS accounts it system-wide: it includes idle and interrupt time, so
// Kernel+User covers the whole elapsed CPU time.
func (h *HostSource) SystemTimes() (CounterSnapshot, error) {
	times, err := cpu.Times(false)
	if err != nil {
		return CounterSnapshot{}, fmt.Errorf("read cpu times: %w", err)
	}
	if len(times) == 0 {
		return CounterSnapshot{}, ErrNoCPUTimes
	}
	t := times[0]
	idle := t.Idle + t.Iowait
	kernel := t.System + t.Irq + t.Softirq + t.Steal + idle
	user := t.User + t.Nice
	return CounterSnapshot{
		Idle:   SecondsToTicks(idle),
		Kernel: SecondsToTicks(kernel),
		User:   SecondsToTicks(user),
	}, nil
}

// MemoryStatus returns the physical memory load.
func (h *HostSource) MemoryStatus() (MemoryStatus, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryStatus{}, fmt.Errorf("read memory status: %w", err)
	}
	return MemoryStatus{
		LoadPercent: vm.UsedPercent,
		TotalBytes:  vm.Total,
		AvailBytes:  vm.Available,
	}, nil
}

// DiskStatus returns the capacity of the volume holding path.
func (h *HostSource) DiskStatus(path string) (DiskStatus, error) {
	u, err := disk.Usage(path)
	if err != nil {
		return DiskStatus{}, fmt.Errorf("read disk status for %s: %w", path, err)
	}
	return DiskStatus{TotalBytes: u.Total, FreeBytes: u.Free}, nil
}

// Processes lists the PIDs currently known to the OS.
func (h *HostSource) Processes() (iter.Seq[ProcessRef], error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	return func(yield func(ProcessRef) bool) {
		for _, pid := range pids {
			if !yield(ProcessRef{PID: pid}) {
				return
			}
		}
	}, nil
}

// OpenProcess resolves ref to a live process. It fails when the process has
// exited since enumeration or its name cannot be read (typically a
// permission error).
func (h *HostSource) OpenProcess(ref ProcessRef) (ProcessHandle, error) {
	p, err := process.NewProcess(ref.PID)
	if err != nil {
		return nil, fmt.Errorf("open process %d: %w", ref.PID, err)
	}
	name, err := p.Name()
	if err != nil {
		return nil, fmt.Errorf("read name of process %d: %w", ref.PID, err)
	}
	return &hostProcess{proc: p, name: name}, nil
}

type hostProcess struct {
	proc *process.Process
	name string
}

func (p *hostProcess) Name() string { return p.name }

func (p *hostProcess) Times() (CounterSnapshot, error) {
	t, err := p.proc.Times()
	if err != nil {
		return CounterSnapshot{}, fmt.Errorf("read times of process %d: %w", p.proc.Pid, err)
	}
	return CounterSnapshot{
		Kernel: SecondsToTicks(t.System),
		User:   SecondsToTicks(t.User),
	}, nil
}

func (p *hostProcess) MemoryBytes() (uint64, error) {
	mi, err := p.proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("read memory of process %d: %w", p.proc.Pid, err)
	}
	return mi.RSS, nil
}

// Close drops the process reference. gopsutil opens and releases OS handles
// per call, so nothing is held between reads.
func (p *hostProcess) Close() error {
	p.proc = nil
	return nil
}
