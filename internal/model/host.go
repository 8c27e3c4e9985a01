package model

// HostFacts are the static identity fields read fresh each cycle.
type HostFacts struct {
	OSName           string
	OSVersion        string
	OSManufacturer   string
	CPUModel         string
	CPUCoresPhysical int
	CPUCoresLogical  int
	CPUFrequencyMHz  uint64
}

// MemoryGauges are instantaneous memory readings; no delta involved.
type MemoryGauges struct {
	TotalBytes     uint64
	AvailableBytes uint64
}

// ProcessTable is the process census for one cycle: totals plus the
// CPU-descending ranking already truncated by the reader.
type ProcessTable struct {
	ProcessCount int
	ThreadCount  int
	Top          []ProcessInfo
}
