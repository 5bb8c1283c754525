// Command nanosql is an interactive REPL for the embeddable engine,
// grounded on the teacher's cmd/repl/main.go: read a line, execute it,
// print the result or error, repeat.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nanosql/nanosql"
	"github.com/nanosql/nanosql/internal/config"
)

func main() {
	cfgPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nanosql: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	db := nanosql.NewDBWithConfig(cfg)
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("nanosql> type SQL statements, one per line; Ctrl-D to exit.")
	for {
		fmt.Print("nanosql> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ".import") {
			fields := strings.Fields(line)
			if len(fields) != 3 {
				fmt.Fprintln(os.Stderr, "usage: .import <path> <table>")
				continue
			}
			if err := importCSVFile(db, fields[1], fields[2]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			continue
		}
		if strings.HasPrefix(strings.ToUpper(line), "SELECT") {
			rs, err := db.Query(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			printResultSet(rs)
			continue
		}
		n, err := db.Exec(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("ok, %d row(s) affected\n", n)
	}
}

func importCSVFile(db *nanosql.DB, path, table string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return db.ImportCSV(table, f)
}

func printResultSet(rs *nanosql.ResultSet) {
	fmt.Println(strings.Join(rs.Columns, "\t"))
	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	fmt.Printf("(%d row(s))\n", len(rs.Rows))
}
