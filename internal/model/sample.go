package model

// NetworkInterface is one non-loopback interface counter record as shipped
// on the wire.
type NetworkInterface struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
}

// ProcessInfo is one entry of the top-processes ranking.
type ProcessInfo struct {
	PID         int32   `json:"pid"`
	Name        string  `json:"name"`
	CPUPercent  float64 `json:"cpu_percent"`
	MemoryBytes uint64  `json:"memory_bytes"`
	State       string  `json:"state"`
}

// MetricsSample is the fully computed point-in-time report delivered to the
// backend. Immutable once built; the JSON keys are the wire contract.
type MetricsSample struct {
	OSName            string             `json:"os_name"`
	OSVersion         string             `json:"os_version"`
	OSManufacturer    string             `json:"os_manufacturer"`
	CPUModel          string             `json:"cpu_model"`
	CPUCoresPhysical  int                `json:"cpu_cores_physical"`
	CPUCoresLogical   int                `json:"cpu_cores_logical"`
	CPUPercent        float64            `json:"cpu_percent"`
	CPUFrequencyMHz   uint64             `json:"cpu_frequency_mhz"`
	MemoryTotalGB     float64            `json:"memory_total_gb"`
	MemoryAvailableGB float64            `json:"memory_available_gb"`
	MemoryUsedGB      float64            `json:"memory_used_gb"`
	MemoryPercent     float64            `json:"memory_percent"`
	DiskReadMBps      float64            `json:"disk_read_mbps"`
	DiskWriteMBps     float64            `json:"disk_write_mbps"`
	DiskIOTotalMBps   float64            `json:"disk_io_total_mbps"`
	NetworkInterfaces []NetworkInterface `json:"network_interfaces"`
	ProcessCount      int                `json:"process_count"`
	ThreadCount       int                `json:"thread_count"`
	TopProcesses      []ProcessInfo      `json:"top_processes"`
	TimestampMillis   int64              `json:"timestamp"`
}
