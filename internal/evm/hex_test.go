package evm

import (
	"errors"
	"math/big"
	"testing"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"0x0", 0, false},
		{"0x1b4", 436, false},
		{"0X10", 16, false},
		{"0x", 0, true},
		{"", 0, true},
		{"0xzz", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseQuantity(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidHex) {
				t.Errorf("ParseQuantity(%q): expected ErrInvalidHex, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuantity(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseBig(t *testing.T) {
	zero, err := ParseBig("0x")
	if err != nil || zero.Sign() != 0 {
		t.Errorf("ParseBig(0x) = %v, %v; want 0", zero, err)
	}

	n, err := ParseBig("0xde0b6b3a7640000")
	if err != nil {
		t.Fatalf("ParseBig: %v", err)
	}
	want, _ := new(big.Int).SetString("1000000000000000000", 10)
	if n.Cmp(want) != 0 {
		t.Errorf("ParseBig = %s, want %s", n, want)
	}

	if _, err := ParseBig("0xnothex"); !errors.Is(err, ErrInvalidHex) {
		t.Errorf("expected ErrInvalidHex, got %v", err)
	}
}

func TestToQuantity(t *testing.T) {
	if got := ToQuantity(0); got != "0x0" {
		t.Errorf("ToQuantity(0) = %s", got)
	}
	if got := ToQuantity(255); got != "0xff" {
		t.Errorf("ToQuantity(255) = %s", got)
	}
}

func TestTopicToAddress(t *testing.T) {
	topic := "0x000000000000000000000000833589FCD6EDB6E08F4C7C32D4F71B54BDA02913"
	addr, ok := TopicToAddress(topic)
	if !ok {
		t.Fatal("expected ok")
	}
	if addr != "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913" {
		t.Errorf("unexpected address %s", addr)
	}

	if _, ok := TopicToAddress("0x1234"); ok {
		t.Error("short topic should not decode")
	}
}

func TestDataWordAddress(t *testing.T) {
	word0 := "000000000000000000000000000000000000000000000000000000000000000a"
	word1 := "0000000000000000000000004200000000000000000000000000000000000006"
	data := "0x" + word0 + word1

	addr, ok := DataWordAddress(data, 1)
	if !ok {
		t.Fatal("expected ok")
	}
	if addr != "0x4200000000000000000000000000000000000006" {
		t.Errorf("unexpected address %s", addr)
	}

	if _, ok := DataWordAddress(data, 2); ok {
		t.Error("out of range word should not decode")
	}
	if _, ok := DataWordAddress(data, -1); ok {
		t.Error("negative index should not decode")
	}
}

func TestHasCode(t *testing.T) {
	if HasCode("0x") {
		t.Error("0x has no code")
	}
	if HasCode("") {
		t.Error("empty has no code")
	}
	if !HasCode("0x6080604052") {
		t.Error("expected code")
	}
}

func TestWeiToEther(t *testing.T) {
	if got := WeiToEther(nil, 4); got != "0.0000" {
		t.Errorf("WeiToEther(nil) = %s", got)
	}
	wei, _ := new(big.Int).SetString("1234500000000000000", 10)
	if got := WeiToEther(wei, 4); got != "1.2345" {
		t.Errorf("WeiToEther = %s, want 1.2345", got)
	}
}

func TestShortAddress(t *testing.T) {
	addr := "0x4ed4e862860bed51a9570b96d89af5e1b0efefed"
	if got := ShortAddress(addr); got != "0x4ed4e8...efed" {
		t.Errorf("ShortAddress = %s", got)
	}
	if got := ShortAddress("0xabc"); got != "0xabc" {
		t.Errorf("short input should be unchanged, got %s", got)
	}
}
