package storage_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fleetchain/ledger/foundation/ledger"
	"github.com/fleetchain/ledger/foundation/ledger/storage"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_DiskRoundTrip(t *testing.T) {
	ev := func(level ledger.Level, v string, args ...any) {}

	t.Log("Given the need to round-trip a chain through the disk file.")
	{
		t.Log("\tTest 0:\tWhen saving and loading a two block chain.")
		{
			dbPath := filepath.Join(t.TempDir(), "zledger", "chain.json")

			d, err := storage.NewDisk(dbPath)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to open disk storage: %v", failed, err)
			}
			defer d.Close()
			t.Logf("\t%s\tTest 0:\tShould be able to open disk storage.", success)

			genesis, err := ledger.POW(context.Background(), 0, ledger.GenesisPayload(), ledger.ZeroHash, 1, 0, ev)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine a genesis block: %v", failed, err)
			}

			payload, err := ledger.TelemetryPayload("FERR-002", map[string]any{"brake_wear": "25%"})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to build a payload: %v", failed, err)
			}
			blk, err := ledger.POW(context.Background(), 1, payload, genesis.Hash, 1, 0, ev)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine a block: %v", failed, err)
			}

			chain := []ledger.Block{genesis, blk}
			if err := d.Save(chain); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to save the chain.", success)

			loaded, err := d.Load()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to load the chain: %v", failed, err)
			}

			if len(loaded) != len(chain) {
				t.Fatalf("\t%s\tTest 0:\tShould load the same number of blocks: got %d.", failed, len(loaded))
			}
			for i := range chain {
				if loaded[i].Hash != chain[i].Hash || loaded[i].Nonce != chain[i].Nonce {
					t.Fatalf("\t%s\tTest 0:\tShould preserve nonce and hash for block %d.", failed, i)
				}

				hash, err := ledger.ComputeHash(loaded[i])
				if err != nil || hash != loaded[i].Hash {
					t.Fatalf("\t%s\tTest 0:\tShould keep block %d hash consistent after loading.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould preserve every block, nonce and hash included.", success)
		}

		t.Log("\tTest 1:\tWhen loading from a path with no prior chain.")
		{
			dbPath := filepath.Join(t.TempDir(), "chain.json")

			d, err := storage.NewDisk(dbPath)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to open disk storage: %v", failed, err)
			}
			defer d.Close()

			loaded, err := d.Load()
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould not error on a missing file: %v", failed, err)
			}
			if !reflect.DeepEqual(loaded, []ledger.Block(nil)) {
				t.Errorf("\t%s\tTest 1:\tShould report an empty chain: got %d blocks.", failed, len(loaded))
			} else {
				t.Logf("\t%s\tTest 1:\tShould report an empty chain.", success)
			}
		}
	}
}
