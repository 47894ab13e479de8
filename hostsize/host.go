// Package hostsize reads memory and disk capacities from the host as dataunit.ByteConverter values.
package hostsize

import (
	"strconv"

	"github.com/encoderuz/byte-calculator/dataunit"
	"github.com/juju/errors"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/mem"
)

// Map library functions to unexported package variables for testing purposes.
var memVirtualMemory = mem.VirtualMemory
var diskUsage = disk.Usage

func kilobytes(b dataunit.ByteConverter) string {
	return strconv.FormatFloat(b.Kilobytes().Value, 'f', 6, 64)
}

// Memory stores memory collected from the host
type Memory struct {
	Total     dataunit.ByteConverter
	Available dataunit.ByteConverter
}

// ToStringMap returns a map of key/value metadata about the host memory
// where memory sizes are reported in KB
func (m *Memory) ToStringMap() map[string]string {
	return map[string]string{
		"host_mem_total":     kilobytes(m.Total),
		"host_mem_available": kilobytes(m.Available),
	}
}

// GetMemory returns the amount of memory on the host
func GetMemory() (*Memory, error) {
	m := &Memory{}
	memoryStat, err := memVirtualMemory()
	if err != nil {
		return m, errors.Annotate(err, "cannot read virtual memory")
	}
	m.Total = dataunit.New(memoryStat.Total)
	m.Available = dataunit.New(memoryStat.Available)
	return m, nil
}

// Disk stores the capacity of the filesystem holding Path
type Disk struct {
	Path  string
	Total dataunit.ByteConverter
	Free  dataunit.ByteConverter
	Used  dataunit.ByteConverter
}

// ToStringMap returns a map of key/value metadata about the disk
// where sizes are reported in KB
func (d *Disk) ToStringMap() map[string]string {
	return map[string]string{
		"disk_path":  d.Path,
		"disk_total": kilobytes(d.Total),
		"disk_free":  kilobytes(d.Free),
		"disk_used":  kilobytes(d.Used),
	}
}

// GetDisk returns the capacity of the filesystem that holds path
func GetDisk(path string) (*Disk, error) {
	d := &Disk{Path: path}
	usage, err := diskUsage(path)
	if err != nil {
		return d, errors.Annotatef(err, "cannot read disk usage of %s", path)
	}
	d.Total = dataunit.New(usage.Total)
	d.Free = dataunit.New(usage.Free)
	d.Used = dataunit.New(usage.Used)
	return d, nil
}
