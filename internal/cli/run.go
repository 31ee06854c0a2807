package cli

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"lob/internal/cache"
	"lob/internal/codegen"
	"lob/internal/compile"
	"lob/internal/loberr"
	"lob/internal/toolchain"
)

// execute drives the pipeline end to end:
// synthesize -> hash lookup -> (compile) -> execute.
func execute(inv invocation) error {
	log, sync := newLogger(inv.Verbose)
	defer sync()

	pipeline := NewPipeline()
	if err := pipeline.To(PhaseSynthesizing); err != nil {
		return err
	}

	generator := codegen.New(inv.Expression, inv.Source, inv.OutputFormat)
	source := generator.Generate()

	if inv.ShowSource {
		fmt.Print(source)
		return nil
	}

	store, err := cache.Default()
	if err != nil {
		return err
	}

	handle, err := toolchain.Resolve(store.Dir(), log)
	if err != nil {
		return err
	}
	if err := compile.ValidateToolchain(handle); err != nil {
		return loberr.Toolchainf("%v", err)
	}

	if err := pipeline.To(PhaseHashLookup); err != nil {
		return err
	}

	compiler := compile.New(handle, log)

	compileStart := time.Now()
	result, err := compileThroughPipeline(pipeline, compiler, store, source, inv.Expression)
	if err != nil {
		return err
	}
	compileTime := time.Since(compileStart)

	log.Infow("binary ready",
		"path", result.BinaryPath,
		"cache_hit", result.CacheHit,
	)

	if err := pipeline.To(PhaseExecuting); err != nil {
		return err
	}

	execStart := time.Now()
	runErr := runBinary(result.BinaryPath, inv.Source.Files)
	execTime := time.Since(execStart)

	if runErr != nil {
		if terr := pipeline.To(PhaseNonZeroExit); terr != nil {
			return terr
		}
		return runErr
	}
	if err := pipeline.To(PhaseSuccess); err != nil {
		return err
	}

	if inv.Stats {
		printStats(compileTime, execTime, result.CacheHit)
	}
	return nil
}

// compileThroughPipeline performs the hash lookup and, on a miss, the
// compile, recording the matching phase transitions.
func compileThroughPipeline(pipeline *Pipeline, compiler *compile.Compiler, store *cache.Cache, source, expr string) (compile.Result, error) {
	result, err := compiler.CompileAndCache(source, store, expr)
	if err != nil {
		// The lookup happened inside CompileAndCache; reaching an error
		// means it was a miss that then failed to compile.
		if terr := pipeline.To(PhaseCompiling); terr != nil {
			return compile.Result{}, terr
		}
		if terr := pipeline.To(PhaseCompileFailed); terr != nil {
			return compile.Result{}, terr
		}
		return compile.Result{}, err
	}

	if result.CacheHit {
		if terr := pipeline.To(PhaseCacheHit); terr != nil {
			return compile.Result{}, terr
		}
		return result, nil
	}
	if terr := pipeline.To(PhaseCompiling); terr != nil {
		return compile.Result{}, terr
	}
	if terr := pipeline.To(PhaseLinked); terr != nil {
		return compile.Result{}, terr
	}
	return result, nil
}

// runBinary executes the compiled program with the parent's stdio. File
// inputs travel as the child's own arguments; the child re-reads them.
func runBinary(path string, files []string) error {
	cmd := exec.Command(path, files...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return loberr.Execution(exitErr.ExitCode())
	}
	return loberr.IO(err)
}

func printStats(compileTime, execTime time.Duration, cacheHit bool) {
	cacheLine := "Miss (compiled)"
	if cacheHit {
		cacheLine = "Hit (binary reused)"
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Statistics:")
	fmt.Fprintf(os.Stderr, "  Compilation time: %v\n", compileTime)
	fmt.Fprintf(os.Stderr, "  Execution time:   %v\n", execTime)
	fmt.Fprintf(os.Stderr, "  Total time:       %v\n", compileTime+execTime)
	fmt.Fprintf(os.Stderr, "  Cache:            %s\n", cacheLine)
}

// newLogger returns a stderr logger: chatty in verbose mode, silent
// otherwise. The sync func is safe to defer even for the nop logger.
func newLogger(verbose bool) (*zap.SugaredLogger, func()) {
	if !verbose {
		return zap.NewNop().Sugar(), func() {}
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar(), func() {}
	}
	return logger.Sugar(), func() { _ = logger.Sync() }
}
