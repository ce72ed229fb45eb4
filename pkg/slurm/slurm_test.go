package slurm

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/clusterscope/cscope/pkg/execx"
	"github.com/clusterscope/cscope/pkg/logging"
)

func testLogger() *logging.Logger {
	log := logging.New(logging.ERROR, false)
	log.SetOutput(io.Discard)
	return log
}

const partitionOut = "PartitionName=cpu State=UP Nodes=cpu[001-004]\n" +
	"PartitionName=h100 State=UP Nodes=gpu[001-002]\n" +
	"PartitionName=h200 State=UP Nodes=gpu[003-004]\n"

func newTestClient(outputs map[string]string) (*Client, *execx.Fake) {
	fake := &execx.Fake{Outputs: outputs}
	return NewClient(fake, testLogger()), fake
}

func TestPartitions(t *testing.T) {
	client, _ := newTestClient(map[string]string{
		"scontrol show partition -o": partitionOut,
		"scontrol show node cpu[001-004] -o": "NodeName=cpu001 State=IDLE CPUTot=192 RealMemory=512000\n" +
			"NodeName=cpu002 State=DOWN CPUTot=192 RealMemory=512000\n",
		"scontrol show node gpu[001-002] -o": "NodeName=gpu001 State=IDLE CPUTot=192 RealMemory=2048000 Gres=gpu:h100:8\n" +
			"NodeName=gpu002 State=MIXED CPUTot=192 RealMemory=2048000 Gres=gpu:h100:8\n",
		"scontrol show node gpu[003-004] -o": "NodeName=gpu003 State=IDLE CPUTot=192 RealMemory=3072000 Gres=gpu:h200:8\n",
	})

	partitions, err := client.Partitions(context.Background(), "")
	if err != nil {
		t.Fatalf("Partitions() error: %v", err)
	}
	if len(partitions) != 3 {
		t.Fatalf("expected 3 partitions, got %d", len(partitions))
	}

	// Scheduler-reported order survives the concurrent node queries.
	wantOrder := []string{"cpu", "h100", "h200"}
	for i, want := range wantOrder {
		if partitions[i].Name != want {
			t.Errorf("partition[%d] = %q, want %q", i, partitions[i].Name, want)
		}
	}

	cpu := partitions[0]
	if cpu.CPUCount != 192 || cpu.MemTotalMB != 512000 || cpu.GPUCount != 0 {
		t.Errorf("cpu partition = %+v", cpu)
	}
	if cpu.AvailableNodes != 1 {
		t.Errorf("cpu AvailableNodes = %d, want 1 (DOWN node excluded)", cpu.AvailableNodes)
	}

	h100 := partitions[1]
	if h100.GPUCount != 8 || h100.GPUModel != "H100" {
		t.Errorf("h100 partition GPU = %d %q, want 8 H100", h100.GPUCount, h100.GPUModel)
	}
	if h100.AvailableNodes != 2 {
		t.Errorf("h100 AvailableNodes = %d, want 2", h100.AvailableNodes)
	}
}

func TestPartitionsFilter(t *testing.T) {
	outputs := map[string]string{
		"scontrol show partition -o":         partitionOut,
		"scontrol show node gpu[001-002] -o": "NodeName=gpu001 State=IDLE CPUTot=192 RealMemory=2048000 Gres=gpu:h100:8\n",
	}

	client, fake := newTestClient(outputs)
	filtered, err := client.Partitions(context.Background(), "h100")
	if err != nil {
		t.Fatalf("Partitions(h100) error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "h100" {
		t.Fatalf("Partitions(h100) = %+v, want exactly [h100]", filtered)
	}
	if filtered[0].CPUCount != 192 {
		t.Errorf("h100 cpu_count = %d, want 192", filtered[0].CPUCount)
	}

	// Only the matching partition's nodes are queried.
	for _, call := range fake.Calls() {
		if call == "scontrol show node cpu[001-004] -o" {
			t.Error("filtered query expanded nodes of a non-matching partition")
		}
	}
}

func TestPartitionsFilterUnmatched(t *testing.T) {
	client, _ := newTestClient(map[string]string{
		"scontrol show partition -o": partitionOut,
	})
	partitions, err := client.Partitions(context.Background(), "doesnotexist")
	if err != nil {
		t.Fatalf("unmatched filter must not error, got %v", err)
	}
	if len(partitions) != 0 {
		t.Fatalf("unmatched filter = %+v, want empty", partitions)
	}
}

func TestPartitionsFilterIsSubsequence(t *testing.T) {
	outputs := map[string]string{
		"scontrol show partition -o":         partitionOut,
		"scontrol show node cpu[001-004] -o": "NodeName=cpu001 State=IDLE CPUTot=192 RealMemory=512000\n",
		"scontrol show node gpu[001-002] -o": "NodeName=gpu001 State=IDLE CPUTot=192 RealMemory=2048000 Gres=gpu:h100:8\n",
		"scontrol show node gpu[003-004] -o": "NodeName=gpu003 State=IDLE CPUTot=192 RealMemory=3072000 Gres=gpu:h200:8\n",
	}

	client, _ := newTestClient(outputs)
	all, err := client.Partitions(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	for _, filter := range []string{"cpu", "h100", "h200"} {
		client, _ := newTestClient(outputs)
		filtered, err := client.Partitions(context.Background(), filter)
		if err != nil {
			t.Fatal(err)
		}
		pos := 0
		for _, p := range filtered {
			found := false
			for ; pos < len(all); pos++ {
				if all[pos].Name == p.Name {
					found = true
					pos++
					break
				}
			}
			if !found {
				t.Errorf("filter %q: %q breaks subsequence order", filter, p.Name)
			}
		}
	}
}

func TestPartitionsSkipsMalformedLines(t *testing.T) {
	client, _ := newTestClient(map[string]string{
		"scontrol show partition -o": "completely malformed line with no keys\n" +
			"PartitionName=ok State=UP Nodes=(null)\n",
	})
	partitions, err := client.Partitions(context.Background(), "")
	if err != nil {
		t.Fatalf("malformed line must be skipped, got error %v", err)
	}
	if len(partitions) != 1 || partitions[0].Name != "ok" {
		t.Fatalf("partitions = %+v, want exactly [ok]", partitions)
	}
	if partitions[0].CPUCount != 0 {
		t.Errorf("(null) node spec should produce zero resources, got %d CPUs", partitions[0].CPUCount)
	}
}

func TestAvailable(t *testing.T) {
	t.Run("sinfo works", func(t *testing.T) {
		client, _ := newTestClient(map[string]string{"sinfo --version": "slurm 23.02.7"})
		if !client.Available(context.Background()) {
			t.Error("Available() = false with working sinfo")
		}
	})

	t.Run("sinfo not on PATH", func(t *testing.T) {
		fake := &execx.Fake{Missing: map[string]bool{"sinfo": true}}
		client := NewClient(fake, testLogger())
		if client.Available(context.Background()) {
			t.Error("Available() = true without sinfo")
		}
		if len(fake.Calls()) != 0 {
			t.Error("missing binary should short-circuit without running commands")
		}
	})

	t.Run("sinfo keeps failing", func(t *testing.T) {
		fake := &execx.Fake{Errs: map[string]error{"sinfo --version": errors.New("boom")}}
		client := NewClient(fake, testLogger())
		if client.Available(context.Background()) {
			t.Error("Available() = true with failing sinfo")
		}
		if len(fake.Calls()) != 3 {
			t.Errorf("expected 3 detection attempts, got %d", len(fake.Calls()))
		}
	})
}

func TestClusterName(t *testing.T) {
	client, _ := newTestClient(map[string]string{
		"scontrol show config": "Configuration data as of ...\nClusterName = mycluster\nOther = value",
	})
	name, err := client.ClusterName(context.Background())
	if err != nil {
		t.Fatalf("ClusterName() error: %v", err)
	}
	if name != "mycluster" {
		t.Errorf("ClusterName() = %q, want mycluster", name)
	}
}

func TestVersion(t *testing.T) {
	client, _ := newTestClient(map[string]string{"sinfo --version": "slurm 23.02.7"})
	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if version != "23.02.7" {
		t.Errorf("Version() = %q, want 23.02.7", version)
	}
}

func TestGPUInventory(t *testing.T) {
	client, _ := newTestClient(map[string]string{
		"sinfo -h -o %G": "gres:gpu:a100:4\ngres:gpu:v100:2\n(null)\ngres:gpu:a100:4\nother:resource:1",
	})
	inventory, err := client.GPUInventory(context.Background())
	if err != nil {
		t.Fatalf("GPUInventory() error: %v", err)
	}
	if len(inventory) != 2 {
		t.Fatalf("inventory = %+v, want 2 models", inventory)
	}
	if inventory[0].Model != "A100" || inventory[0].Count != 8 {
		t.Errorf("inventory[0] = %+v, want A100 x8", inventory[0])
	}
	if inventory[1].Model != "V100" || inventory[1].Count != 2 {
		t.Errorf("inventory[1] = %+v, want V100 x2", inventory[1])
	}
}

func TestHasGPUType(t *testing.T) {
	outputs := map[string]string{"sinfo -h -o %G": "gres:gpu:a100:4\ngres:gpu:v100:2"}

	tests := []struct {
		model string
		want  bool
	}{
		{"A100", true},
		{"a100", true},
		{"V100", true},
		{"H100", false},
		{"A10", false}, // exact match: no substring hits
		{"A1000", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			client, _ := newTestClient(outputs)
			got, err := client.HasGPUType(context.Background(), tt.model)
			if err != nil {
				t.Fatalf("HasGPUType(%q) error: %v", tt.model, err)
			}
			if got != tt.want {
				t.Errorf("HasGPUType(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}
