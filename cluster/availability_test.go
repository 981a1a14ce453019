package cluster

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSGEAvailability(t *testing.T) {
	tmp := t.TempDir()
	marker := filepath.Join(tmp, "temporarily-disable-drmaa")

	p := &Probes{SGEDisableFile: marker}
	if !p.SGEAvailable() {
		t.Error("sge should be available without the kill switch")
	}

	if err := os.WriteFile(marker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if p.SGEAvailable() {
		t.Error("sge should be disabled by the kill switch")
	}
}

func TestCondorAvailability(t *testing.T) {
	tmp := t.TempDir()
	marker := filepath.Join(tmp, "temporarily-disable-condor")

	probe := &fakeProbe{online: true}
	p := &Probes{CondorDisableFile: marker, Probe: probe}

	if !p.CondorAvailable() {
		t.Error("condor should be available with executors online")
	}

	probe.online = false
	if p.CondorAvailable() {
		t.Error("condor should be unavailable with no executors")
	}

	probe.online = true
	if err := os.WriteFile(marker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if p.CondorAvailable() {
		t.Error("condor should be disabled by the kill switch")
	}
}

func TestCondorProbeMissingBinary(t *testing.T) {
	p := &CondorProbe{Command: "/no/such/condor_status"}
	if p.ExecutorsOnline() {
		t.Error("a missing binary means the pool is offline")
	}
	if got := p.ListMachines(); len(got) != 0 {
		t.Error("a missing binary means no machines", got)
	}
}
