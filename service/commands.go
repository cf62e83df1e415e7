package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"yatube/app/repositories"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initDb(cmd, loadConfig().BadgerPath)
		},
	}
}

func newCleanCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return clean(cmd, loadConfig().BadgerPath, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newBackupCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := backup(cmd, loadConfig().BadgerPath, dir)
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "data/backups", "Directory the backup is written to")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return restore(cmd, loadConfig().BadgerPath, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace an existing database without asking")
	return cmd
}

// initDb initializes a new empty database.
func initDb(cmd *cobra.Command, dbPath string) error {
	out := cmd.OutOrStdout()
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Fprintln(out, "Database already exists. Use 'clean' first if you want to reinitialize.")
		return nil
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %v", err)
	}

	db, err := repositories.OpenBadger(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}
	defer db.Close()

	printSuccess(out, "Database initialized at %s", dbPath)
	return nil
}

// clean removes the database.
func clean(cmd *cobra.Command, dbPath string, yes bool) error {
	out := cmd.OutOrStdout()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "Database is already clean (does not exist)")
		return nil
	}

	if !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.", yes) {
		fmt.Fprintln(out, "Operation cancelled")
		return nil
	}

	if err := os.RemoveAll(dbPath); err != nil {
		return fmt.Errorf("failed to clean database: %v", err)
	}
	printSuccess(out, "Database cleaned")
	return nil
}

// backup writes a full backup of the database into dir and returns its path.
func backup(cmd *cobra.Command, dbPath, dir string) (string, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("no database exists to backup at %s", dbPath)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %v", err)
	}

	db, err := repositories.OpenBadger(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %v", err)
	}
	defer db.Close()

	backupFile := filepath.Join(dir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %v", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return "", fmt.Errorf("failed to backup database: %v", err)
	}

	printSuccess(cmd.OutOrStdout(), "Database backed up to %s", backupFile)
	return backupFile, nil
}

// restore replaces the database with the contents of backupFile.
func restore(cmd *cobra.Command, dbPath, backupFile string, yes bool) error {
	out := cmd.OutOrStdout()
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if err != nil {
		return err
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if _, err := os.Stat(dbPath); err == nil {
		if !confirm(cmd, "Existing database found. Do you want to replace it?", yes) {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(dbPath); err != nil {
			return fmt.Errorf("failed to remove existing database: %v", err)
		}
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %v", err)
	}

	db, err := repositories.OpenBadger(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %v", err)
	}
	defer f.Close()

	err = func() (loadErr error) {
		defer func() {
			if r := recover(); r != nil {
				loadErr = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return db.Load(f, 4)
	}()
	if err != nil {
		return fmt.Errorf("failed to restore database: %v", err)
	}

	printSuccess(out, "Database restored from %s", backupFile)
	return nil
}
