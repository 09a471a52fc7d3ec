package ledger_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fleetchain/ledger/foundation/ledger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// noEv drops all ledger events during testing.
func noEv(level ledger.Level, v string, args ...any) {}

func Test_Mining(t *testing.T) {
	difficulties := []uint{0, 1, 2}

	t.Log("Given the need to mine blocks at increasing difficulties.")
	{
		for testID, difficulty := range difficulties {
			t.Logf("\tTest %d:\tWhen mining a telemetry block at difficulty %d.", testID, difficulty)
			{
				payload, err := ledger.TelemetryPayload("LAMB-001", map[string]any{"oil_level": "low"})
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to construct the payload: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to construct the payload.", success, testID)

				blk, err := ledger.POW(context.Background(), 1, payload, "0", difficulty, 0, noEv)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, testID)

				zeros := strings.Repeat("0", int(difficulty))
				if !strings.HasPrefix(blk.Hash, zeros) {
					t.Errorf("\t%s\tTest %d:\tShould have %d leading zero characters: got %s.", failed, testID, difficulty, blk.Hash)
				} else {
					t.Logf("\t%s\tTest %d:\tShould have %d leading zero characters.", success, testID, difficulty)
				}

				hash, err := ledger.ComputeHash(blk)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to recompute the hash: %v", failed, testID, err)
				}
				if hash != blk.Hash {
					t.Errorf("\t%s\tTest %d:\tShould have a hash consistent with the block fields: got %s, exp %s.", failed, testID, blk.Hash, hash)
				} else {
					t.Logf("\t%s\tTest %d:\tShould have a hash consistent with the block fields.", success, testID)
				}
			}
		}
	}
}

func Test_HashDeterminism(t *testing.T) {
	t.Log("Given the need for a canonical payload encoding.")
	{
		t.Log("\tTest 0:\tWhen encoding two structurally equal sensor mappings.")
		{
			s1 := map[string]any{}
			s1["oil_level"] = "low"
			s1["engine_temp"] = "normal"
			s1["km"] = 15000

			s2 := map[string]any{}
			s2["km"] = 15000
			s2["engine_temp"] = "normal"
			s2["oil_level"] = "low"

			p1, err := ledger.TelemetryPayload("LAMB-001", s1)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the first payload: %v", failed, err)
			}
			p2, err := ledger.TelemetryPayload("LAMB-001", s2)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the second payload: %v", failed, err)
			}

			e1, err := p1.Encode()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to encode the first payload: %v", failed, err)
			}
			e2, err := p2.Encode()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to encode the second payload: %v", failed, err)
			}

			if e1 != e2 {
				t.Errorf("\t%s\tTest 0:\tShould produce identical encodings: got %s and %s.", failed, e1, e2)
			} else {
				t.Logf("\t%s\tTest 0:\tShould produce identical encodings.", success)
			}

			if p1.Tag != p2.Tag {
				t.Errorf("\t%s\tTest 0:\tShould produce identical authentication tags.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould produce identical authentication tags.", success)
			}
		}
	}
}

func Test_SerializationFailure(t *testing.T) {
	t.Log("Given the need to surface payloads that cannot be canonically encoded.")
	{
		t.Log("\tTest 0:\tWhen a sensor value cannot be encoded.")
		{
			sensors := map[string]any{"callback": func() {}}

			if _, err := ledger.TelemetryPayload("LAMB-001", sensors); !ledger.IsSerializationError(err) {
				t.Errorf("\t%s\tTest 0:\tShould get a SerializationError from payload construction: got %v.", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould get a SerializationError from payload construction.", success)
			}

			payload := ledger.Payload{
				Kind:      ledger.KindTelemetry,
				VehicleID: "LAMB-001",
				Sensors:   sensors,
			}

			if _, err := ledger.POW(context.Background(), 1, payload, "0", 0, 0, noEv); !ledger.IsSerializationError(err) {
				t.Errorf("\t%s\tTest 0:\tShould get a SerializationError from mining: got %v.", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould get a SerializationError from mining.", success)
			}
		}
	}
}

func Test_MiningBudget(t *testing.T) {
	t.Log("Given the need to bound the proof-of-work search.")
	{
		t.Log("\tTest 0:\tWhen the attempt budget is exhausted.")
		{
			if _, err := ledger.POW(context.Background(), 1, ledger.GenesisPayload(), "0", 12, 5, noEv); !errors.Is(err, ledger.ErrMiningCancelled) {
				t.Errorf("\t%s\tTest 0:\tShould get ErrMiningCancelled: got %v.", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould get ErrMiningCancelled.", success)
			}
		}

		t.Log("\tTest 1:\tWhen the context is already cancelled.")
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := ledger.POW(ctx, 1, ledger.GenesisPayload(), "0", 12, 0, noEv); !errors.Is(err, ledger.ErrMiningCancelled) {
				t.Errorf("\t%s\tTest 1:\tShould get ErrMiningCancelled: got %v.", failed, err)
			} else {
				t.Logf("\t%s\tTest 1:\tShould get ErrMiningCancelled.", success)
			}
		}
	}
}
