// Offline batch tool: encrypts or decrypts a folder tree in one pass.
// Run locally after downloading artifacts from the remote store; it never
// talks to the network.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"drivesend/internal/batch"
	"drivesend/internal/encryption/service"
	"drivesend/internal/keys"
	cryptoaes "drivesend/internal/pkg/crypto/aes"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("DriveSend offline batch tool")
	fmt.Println("\nSelect operation:")
	fmt.Println("1. Encrypt folder")
	fmt.Println("2. Decrypt folder")
	fmt.Println("3. Generate a new encryption key")
	fmt.Print("\nChoice: ")

	choice, err := readLine(reader)
	if err != nil {
		return err
	}

	var mode batch.Mode
	switch choice {
	case "1":
		mode = batch.ModeEncrypt
	case "2":
		mode = batch.ModeDecrypt
	case "3":
		return generateKey()
	default:
		return fmt.Errorf("invalid choice %q", choice)
	}

	fmt.Print("\nEnter the folder path: ")
	input, err := readLine(reader)
	if err != nil {
		return err
	}
	folder, err := batch.ResolveFolder(input)
	if err != nil {
		return err
	}

	fmt.Print("Process subfolders recursively? (Y/N): ")
	answer, err := readLine(reader)
	if err != nil {
		return err
	}
	recursive := strings.EqualFold(answer, "y")

	provider := keys.NewProvider(keys.WithPrompt(promptKey))
	key, err := provider.Resolve(context.Background())
	if err != nil {
		return err
	}

	encryptor := cryptoaes.NewGCMEncryptor()
	var runner *batch.Runner
	if mode == batch.ModeDecrypt {
		// Decrypt keeps the .enc originals in place; quarantine below moves
		// them aside, never deletes them.
		runner = batch.NewRunner(service.NewPreservingService(encryptor))
	} else {
		runner = batch.NewRunner(service.NewService(encryptor))
	}
	runner.Log = func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}

	files, err := batch.Enumerate(folder, mode, recursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No matching files found.")
		return nil
	}
	fmt.Printf("\nFound %d file(s) to process.\n\n", len(files))

	result, err := runner.Run(folder, mode, recursive, key)
	if err != nil {
		return err
	}

	fmt.Printf("\nDone: %d successful, %d failed\n", result.Succeeded(), len(result.Failed))

	if mode == batch.ModeDecrypt && result.Succeeded() > 0 {
		fmt.Print("\nMove the decrypted .enc originals to a separate folder? (Y/N): ")
		answer, err := readLine(reader)
		if err != nil {
			return err
		}
		if strings.EqualFold(answer, "y") {
			moved, err := batch.Quarantine(folder, result.Processed)
			if err != nil {
				return err
			}
			fmt.Printf("Moved %d file(s) to %s\n", moved, batch.QuarantineDirName)
		} else {
			fmt.Println("Leaving .enc files in place.")
		}
	}

	return nil
}

// generateKey emits a fresh random key for the operator to store in the
// environment or the OS credential store.
func generateKey() error {
	s, err := keys.Generate()
	if err != nil {
		return err
	}
	fmt.Println("\nGenerated encryption key (base64):")
	fmt.Println(s)
	fmt.Println("\nStore it as DRIVESEND_ENCRYPTION_KEY or in your credential store.")
	fmt.Println("Files encrypted with this key cannot be recovered without it.")
	return nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptKey reads the key without echo so it never lands in terminal
// scrollback.
func promptKey(ctx context.Context) (string, error) {
	fmt.Println("\nEncryption key not found in environment or credential store.")
	fmt.Print("Enter your encryption key: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
