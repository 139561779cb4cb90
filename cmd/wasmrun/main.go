// wasmrun executes a compiled contract wasm file against an in-memory
// environment and prints the result. Useful for smoke-testing contract
// builds without a chain.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	parity "github.com/xzairdrop/parity"
	"github.com/xzairdrop/parity/storage"
	"github.com/xzairdrop/parity/types"
)

func main() {
	gasLimit := flag.Uint64("gas", 1_000_000, "gas ceiling for the invocation")
	inputHex := flag.String("input", "", "hex-encoded call data")
	debug := flag.Bool("debug", false, "enable contract debug output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: wasmrun [flags] <contract.wasm>")
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*debug {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if err := run(flag.Arg(0), *gasLimit, *inputHex, *debug, logger); err != nil {
		logger.Fatal().Err(err).Msg("execution failed")
	}
}

func run(path string, gasLimit uint64, inputHex string, debug bool, logger zerolog.Logger) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	input, err := hex.DecodeString(inputHex)
	if err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	ctx := context.Background()
	config := parity.DefaultConfig()
	config.Debug = debug
	vm := parity.NewVM(ctx, config, logger)
	defer vm.Close(ctx)

	checksum, err := vm.StoreCode(ctx, code)
	if err != nil {
		return err
	}
	logger.Info().Str("checksum", checksum.String()).Msg("stored contract")

	env := storage.NewMemEnv()
	callCtx := types.CallContext{Value: uint256.NewInt(0)}
	result, err := vm.Execute(ctx, checksum, env, callCtx, gasLimit, input)
	if err != nil {
		return err
	}

	fmt.Printf("output:   %s\n", hex.EncodeToString(result.Output))
	fmt.Printf("gas used: %d\n", result.GasUsed)
	fmt.Printf("gas left: %d\n", result.GasLeft)
	if result.Suicided {
		fmt.Println("contract self-destructed")
	}
	return nil
}
