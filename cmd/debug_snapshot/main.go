package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"library-manager/core/config"
	"library-manager/core/database"
	"library-manager/core/storage"
	"library-manager/feature/catalog/reconcile"
	"library-manager/feature/catalog/snapshot"
	"library-manager/feature/catalog/store"

	"github.com/goccy/go-json"
)

// Usage: debug_snapshot <snapshot.xlsx> [record id]
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_snapshot <snapshot.xlsx> [record id]")
	}

	// Load config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	// Create storage client
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}

	// Connect to DB
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	st := store.New(db)
	ctx := context.Background()

	// Test 1: Parse the snapshot
	fmt.Println("=== TEST 1: Snapshot Parsing ===")
	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	rows, err := snapshot.Read(f)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total rows parsed: %d\n", len(rows))

	// Test 2: Load DB
	fmt.Println("\n=== TEST 2: Database Loading ===")
	current, err := st.ListRecords(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total DB records loaded: %d\n", len(current))

	// Test 3: Look up one record in both
	if len(os.Args) > 2 {
		fmt.Println("\n=== TEST 3: Record Lookup ===")
		id, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatal(err)
		}
		dbRec, err := st.RecordByID(ctx, id)
		if err != nil {
			log.Fatal(err)
		}
		if dbRec == nil {
			fmt.Printf("Record %d NOT FOUND in DB\n", id)
		} else {
			fmt.Printf("FOUND in DB: id=%d, title=%s, tags=%s\n", id, dbRec.DisplayTitle(), dbRec.Tags)
		}
		for _, row := range rows {
			if rid, ok := row.Record.RecordID(); ok && rid == id {
				fmt.Printf("FOUND in snapshot: row=%d, title=%s, tags=%s\n", row.Index, row.Record.DisplayTitle(), row.Record.Tags)
				if dbRec != nil {
					fmt.Printf("Tags equal: %v, metadata equal: %v\n", row.Record.TagsEqual(dbRec), row.Record.MetadataEqual(dbRec))
				}
			}
		}
	}

	// Test 4: Plan
	fmt.Println("\n=== TEST 4: Plan ===")
	plan, err := reconcile.BuildPlan(rows, current)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Pending writes: %d\n", plan.Summary.Writes())

	// Test 5: Storage listing
	fmt.Println("\n=== TEST 5: Storage Listing ===")
	keys, err := storage.ListKeys(ctx, client, cfg.Storage.Bucket, cfg.Catalog.Prefix)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total storage objects: %d\n", len(keys))

	// Save detailed output
	output := map[string]any{
		"snapshot_rows": len(rows),
		"db_records":    len(current),
		"storage_count": len(keys),
		"summary":       plan.Summary,
		"pending":       plan.Pending(),
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	os.WriteFile("debug_snapshot.json", data, 0644)

	fmt.Println("\nDebug complete. Check debug_snapshot.json for details.")
}
