package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"vehicle-finance-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "sync-schemas":
		err = runSyncSchemas(os.Args[2:])
	default:
		help()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID (e.g., estimate-affordability)")
	displayName := fs.String("displayName", "", "Display Name (e.g., Estimate Affordability)")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category (e.g., finance)")
	taskType := fs.String("taskType", "", "Camunda Task Type (e.g., finance.affordability.estimate)")
	version := fs.String("version", "1.0.0", "Version")
	status := fs.String("status", registry.StatusPlanned, "Implementation Status (planned, in-progress, completed, verified)")
	timeout := fs.String("timeout", "10s", "Job timeout")
	_ = fs.Parse(args)

	if *id == "" || *displayName == "" || *category == "" || *taskType == "" {
		fs.Usage()
		return fmt.Errorf("id, displayName, category, and taskType are required for add")
	}

	reg, err := registry.LoadOrCreate(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	err = reg.Add(registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{},
		OutputSchema:         map[string]interface{}{},
		ErrorCodes:           []string{},
		Timeout:              *timeout,
		Workflows:            []string{},
		Tags:                 []string{},
	})
	if err != nil {
		return err
	}
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "Field to update (status, version, timeout, retries, ...)")
	value := fs.String("value", "", "New value for the field")
	_ = fs.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("id, field, and value are required for update")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Update(*id, *field, *value); err != nil {
		return err
	}
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	_ = fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(workerTaskTypes()...); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	fmt.Printf("Registry validation passed (%d activities).\n", len(reg.Activities))
	return nil
}

// runSyncSchemas copies each worker's input schema into its registry entry.
func runSyncSchemas(args []string) error {
	fs := flag.NewFlagSet("sync-schemas", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	_ = fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	updated, err := syncSchemas(reg)
	if err != nil {
		return err
	}
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Synced input schemas for %d activities.\n", updated)
	return nil
}

func syncSchemas(reg *registry.ActivityRegistry) (int, error) {
	updated := 0
	for _, w := range workerCatalogue {
		activity, ok := reg.FindByTaskType(w.taskType)
		if !ok {
			continue
		}
		raw, err := json.Marshal(w.schema())
		if err != nil {
			return updated, fmt.Errorf("encode schema for %s: %w", w.taskType, err)
		}
		var schema map[string]interface{}
		if err := json.Unmarshal(raw, &schema); err != nil {
			return updated, fmt.Errorf("decode schema for %s: %w", w.taskType, err)
		}
		activity.InputSchema = schema
		updated++
	}
	return updated, nil
}

func help() {
	fmt.Println("Usage: registry-updater <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  add           Add a new activity to the registry")
	fmt.Println("  update        Update an existing activity field")
	fmt.Println("  validate      Validate the registry against the implemented workers")
	fmt.Println("  sync-schemas  Copy worker input schemas into the registry")
	fmt.Println("  help          Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println(`  registry-updater add -id=estimate-affordability -displayName="Estimate Affordability" -category=finance -taskType=finance.affordability.estimate`)
	fmt.Println(`  registry-updater update -id=estimate-affordability -field=status -value=completed`)
	fmt.Println(`  registry-updater validate -path=configs/activity-registry.json`)
}
