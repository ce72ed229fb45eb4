package localnode

import (
	"context"
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

func TestNormalizeModel(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"NVIDIA A100-SXM4-80GB", "A100"},
		{"NVIDIA H100 80GB HBM3", "H100"},
		{"Tesla V100-PCIE-32GB", "V100"},
		{"AMD Instinct MI300X OAM", "MI300X"},
		{"NVIDIA GeForce RTX 3090", "RTX3090"},
		{"Tesla T4", "T4"},
		{"Some Unknown Accelerator", "SOME UNKNOWN ACCELERATOR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeModel(tt.name); got != tt.want {
				t.Errorf("NormalizeModel(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestGPUInventoryNvidia(t *testing.T) {
	fake := &execx.Fake{
		Outputs: map[string]string{
			"nvidia-smi --query-gpu=name --format=csv,noheader": "NVIDIA A100-SXM4-80GB\nNVIDIA A100-SXM4-80GB\nNVIDIA H100 80GB HBM3",
		},
		Missing: map[string]bool{"rocm-smi": true},
	}
	probe := NewProbe(fake, testLogger())

	inventory := probe.GPUInventory(context.Background())
	if len(inventory) != 2 {
		t.Fatalf("inventory = %+v, want 2 models", inventory)
	}
	if inventory[0].Model != "A100" || inventory[0].Count != 2 {
		t.Errorf("inventory[0] = %+v, want A100 x2", inventory[0])
	}
	if inventory[1].Model != "H100" || inventory[1].Count != 1 {
		t.Errorf("inventory[1] = %+v, want H100 x1", inventory[1])
	}
}

func TestGPUInventoryRocmFallback(t *testing.T) {
	fake := &execx.Fake{
		Outputs: map[string]string{
			"rocm-smi --showproductname --csv": "device,Card series,Card model\ncard0,AMD Instinct MI300X OAM,0x74a1\ncard1,AMD Instinct MI300X OAM,0x74a1",
		},
		Missing: map[string]bool{"nvidia-smi": true},
	}
	probe := NewProbe(fake, testLogger())

	inventory := probe.GPUInventory(context.Background())
	if len(inventory) != 1 {
		t.Fatalf("inventory = %+v, want 1 model", inventory)
	}
	if inventory[0].Model != "MI300X" || inventory[0].Count != 2 {
		t.Errorf("inventory[0] = %+v, want MI300X x2", inventory[0])
	}
}

func TestGPUInventoryNoGPUs(t *testing.T) {
	fake := &execx.Fake{Missing: map[string]bool{"nvidia-smi": true, "rocm-smi": true}}
	probe := NewProbe(fake, testLogger())

	if inventory := probe.GPUInventory(context.Background()); len(inventory) != 0 {
		t.Errorf("inventory = %+v, want empty on GPU-less host", inventory)
	}
}

func TestHasGPUTypeExactMatch(t *testing.T) {
	fake := &execx.Fake{
		Outputs: map[string]string{
			"nvidia-smi --query-gpu=name --format=csv,noheader": "NVIDIA A100-SXM4-80GB",
		},
		Missing: map[string]bool{"rocm-smi": true},
	}
	probe := NewProbe(fake, testLogger())
	ctx := context.Background()

	if !probe.HasGPUType(ctx, "a100") {
		t.Error("HasGPUType(a100) = false, want true (case-insensitive)")
	}
	if probe.HasGPUType(ctx, "A10") {
		t.Error("HasGPUType(A10) = true, substring must not match")
	}
	if probe.HasGPUType(ctx, "H100") {
		t.Error("HasGPUType(H100) = true on an A100 host")
	}
}
