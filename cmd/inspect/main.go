// Command inspect dumps persisted room snapshots from a BadgerDB in a
// readable table, opening the database read-only so it can run next to
// a live server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"war-room/repositories"
)

func main() {
	dbPath := flag.String("db", "./badger", "Path to badger DB")
	prefix := flag.String("prefix", repositories.KeyPrefix, "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(" Room snapshots "))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Room ID", "Name", "Invited", "Records", "Saved", "Updated", "Last Record"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			// Asset keys sit next to snapshots under the same prefix.
			if !strings.HasSuffix(rawKey, ":data") {
				continue
			}

			err := item.Value(func(v []byte) error {
				snapshot, err := repositories.DecodeSnapshot(v)
				if err != nil {
					// Log and keep scanning instead of stopping the dump.
					fmt.Printf("Error decoding key %s: %v\n", rawKey, err)
					return nil
				}

				lastRecord := ""
				if n := len(snapshot.History); n > 0 {
					rec := snapshot.History[n-1]
					lastRecord = fmt.Sprintf("%s %s: %s", rec.TimeTag, rec.Username, rec.Text)
				}

				table.Append([]string{
					rawKey,
					strconv.FormatInt(snapshot.ID, 10),
					snapshot.Name,
					strconv.Itoa(len(snapshot.Invited)),
					strconv.Itoa(len(snapshot.History)),
					strconv.FormatBool(snapshot.Saved),
					strconv.FormatBool(snapshot.Updated),
					lastRecord,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
