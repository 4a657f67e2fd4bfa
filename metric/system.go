package metric

import (
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"
	log "github.com/sirupsen/logrus"
)

// collectHost refreshes host level gauges.
// Failures only cost one sample, the next tick retries anyway.
func (m *Client) collectHost() {
	if vm, err := mem.VirtualMemory(); err == nil {
		m.hostMemUsage.Set(vm.UsedPercent)
		m.set("host_mem_usage", vm.UsedPercent)
	} else {
		log.Debugf("[metric] get host mem failed: %v", err)
	}

	if avg, err := load.Avg(); err == nil {
		m.hostLoad1.Set(avg.Load1)
		m.set("host_load1", avg.Load1)
	} else {
		log.Debugf("[metric] get host load failed: %v", err)
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		m.hostCPUUsage.Set(percents[0])
		m.set("host_cpu_usage", percents[0])
	} else if err != nil {
		log.Debugf("[metric] get host cpu failed: %v", err)
	}
}
