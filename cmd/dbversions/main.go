package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/dbversion"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/config"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

const usage = `Usage:
  dbversions list
  dbversions create <version> [description] [--from <version>]
  dbversions activate <version>
  dbversions compare <v1> <v2>

Stop the server before activating a version.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	m := dbversion.NewManager(cfg.DataDir, log)

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "list":
		err = list(m)
	case "create":
		err = create(m, args)
	case "activate":
		if len(args) != 1 {
			err = fmt.Errorf("activate needs a version\n%s", usage)
			break
		}
		var mode string
		if mode, err = m.Activate(args[0]); err == nil {
			fmt.Printf("Version '%s' activated (%s)\n", args[0], mode)
		}
	case "compare":
		if len(args) != 2 {
			err = fmt.Errorf("compare needs two versions\n%s", usage)
			break
		}
		err = compare(m, args[0], args[1])
	default:
		err = fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}

	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func create(m *dbversion.Manager, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	from := fs.String("from", "", "version to copy from")

	// flags may follow the positional arguments
	var positional []string
	for len(args) > 0 {
		if err := fs.Parse(args); err != nil {
			return err
		}
		args = fs.Args()
		if len(args) > 0 {
			positional = append(positional, args[0])
			args = args[1:]
		}
	}
	if len(positional) < 1 {
		return fmt.Errorf("create needs a version\n%s", usage)
	}

	version := positional[0]
	description := strings.Join(positional[1:], " ")
	v, err := m.Create(version, description, *from)
	if err != nil {
		return err
	}
	fmt.Printf("Version '%s' created: %s\n", version, v.File)
	fmt.Printf("Run: dbversions activate %s\n", version)
	return nil
}

func list(m *dbversion.Manager) error {
	entries, err := m.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No versions registered yet.")
		return nil
	}

	fmt.Println("Available database versions:")
	fmt.Println()
	for _, e := range entries {
		active := ""
		if e.Active {
			active = " (ACTIVE)"
		}
		fmt.Printf("  %s%s\n", e.Name, active)
		fmt.Printf("    File: %s (%.1f MB)\n", e.File, float64(e.SizeBytes)/1024/1024)
		fmt.Printf("    Created: %s\n", e.Created)
		fmt.Printf("    Description: %s\n\n", e.Description)
	}
	return nil
}

func compare(m *dbversion.Manager, from, to string) error {
	diff, err := m.Compare(from, to)
	if err != nil {
		return err
	}

	fmt.Printf("Comparing '%s' vs '%s':\n\n", from, to)
	if diff.Empty() {
		fmt.Println("  Schemas are identical")
		return nil
	}
	for _, t := range diff.TablesAdded {
		fmt.Printf("  + Table '%s' added in %s\n", t, to)
	}
	for _, t := range diff.TablesRemoved {
		fmt.Printf("  - Table '%s' removed in %s\n", t, to)
	}
	for _, t := range diff.Changed {
		fmt.Printf("  ~ Table '%s' schema changed:\n", t.Table)
		for _, c := range t.ColumnsAdded {
			fmt.Printf("      + Column added: %s\n", c)
		}
		for _, c := range t.ColumnsRemoved {
			fmt.Printf("      - Column removed: %s\n", c)
		}
		for _, c := range t.TypesChanged {
			fmt.Printf("      ~ Type changed: %s\n", c)
		}
	}
	return nil
}
