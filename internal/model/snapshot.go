package model

import "time"

// CPU tick vector slot order, matching /proc/stat column order.
const (
	CPUTickUser = iota
	CPUTickNice
	CPUTickSystem
	CPUTickIdle
	CPUTickIOWait
	CPUTickIRQ
	CPUTickSoftIRQ
	CPUTickSteal
	CPUTickSlots
)

// NetCounters holds cumulative traffic totals for one interface.
type NetCounters struct {
	BytesSent   uint64
	BytesRecv   uint64
	PacketsSent uint64
	PacketsRecv uint64
}

// CounterSnapshot is one atomic read of every cumulative counter the agent
// differences across cycles. Fields only ever grow across the process
// lifetime, except when the underlying subsystem restarts.
type CounterSnapshot struct {
	CPUTicks       []uint64
	DiskReadBytes  uint64
	DiskWriteBytes uint64
	NetInterfaces  map[string]NetCounters
	CapturedAt     time.Time
}
