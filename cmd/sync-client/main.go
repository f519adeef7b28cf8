package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	synchub "shopcatalog/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	full := flag.Bool("full", false, "print every product, not just the summary")
	flag.Parse()

	for {
		if err := run(*addr, *full); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, full bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var ev synchub.CatalogEvent
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil || ev.Type != synchub.SnapshotEvent {
			fmt.Println(sc.Text())
			continue
		}

		fmt.Printf("#%d query=%q products=%d at=%s\n", ev.Seq, ev.Query, ev.Count, ev.At.Format(time.RFC3339))
		if full {
			for _, p := range ev.Products {
				fmt.Printf("  %-4d %-34s %10.2f  %s / %s\n", p.ID, p.Name, p.Price, p.CategoryName, p.SubcategoryName)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}
