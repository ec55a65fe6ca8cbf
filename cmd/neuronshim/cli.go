package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"neuroshim/internal/backend"
	"neuroshim/internal/config"
	"neuroshim/internal/diag"
	"neuroshim/internal/logging"
	"neuroshim/internal/resolver"
	"neuroshim/internal/shim"
	"neuroshim/pkg/apusys"

	// Register compiled-in engines for `probe`.
	_ "neuroshim/internal/backend/onnx"
	_ "neuroshim/internal/backend/tflite"
)

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "neuronshim",
		Short:         "Operator tools for the neuron-shim runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(infoCmd(), probeCmd(), resolveCmd(), runCmd(), serveCmd())
	return root
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show resolved configuration and the backend that would be selected",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logging.SetLevel(cfg.LogLevel)
			rt := shim.New(cfg)
			fmt.Printf("backend:    %s (configured: %s)\n", rt.Backend(), cfg.Backend)
			fmt.Printf("suffix:     %s (configured: %s)\n", rt.Suffix(), cfg.Suffix)
			if cfg.ModelDir != "" {
				fmt.Printf("model_dir:  %s\n", cfg.ModelDir)
			} else {
				fmt.Printf("model_dir:  (unset, models resolved in place)\n")
			}
			fmt.Printf("threads:    %d\n", cfg.Threads)
			fmt.Printf("force_cpu:  %v\n", cfg.ForceCPU)
			fmt.Printf("log_level:  %d\n", cfg.LogLevel)
			fmt.Printf("apu devices: %d (stubbed)\n", apusys.DeviceCount(0))
			return nil
		},
	}
}

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Probe which inference backends are usable on this host",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range backend.Names() {
				b, ok := backend.Lookup(name)
				if !ok {
					continue
				}
				status := "unavailable"
				if b.Probe() {
					status = "available"
				}
				fmt.Printf("%-10s %s\n", name, status)
			}
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PATH",
		Short: "Show where a model path the application requests would resolve to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logging.SetLevel(cfg.LogLevel)
			resolved, err := resolver.Resolve(args[0], cfg.ResolvedSuffix(), cfg.ModelDir)
			if err != nil {
				// The remediation block already went to stderr.
				return err
			}
			fmt.Println(resolved)
			return nil
		},
	}
}

// runCmd is a smoke test: one session, optional model, zeroed input,
// poisoned output, one inference. With the stub backend the output comes
// back zeroed; with a real engine it holds model results.
func runCmd() *cobra.Command {
	var inputSize, outputSize int
	cmd := &cobra.Command{
		Use:   "run [PATH]",
		Short: "Create a session, run one inference, and report the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logging.SetLevel(cfg.LogLevel)
			rt := shim.New(cfg)

			h, err := rt.Create()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Release(h) }()

			if len(args) == 1 {
				if err := rt.LoadFile(h, args[0]); err != nil {
					return err
				}
			}

			in, _ := rt.InputCount(h)
			out, _ := rt.OutputCount(h)
			fmt.Printf("tensors: %d inputs, %d outputs\n", in, out)

			input := make([]byte, inputSize)
			output := bytes.Repeat([]byte{0xAB}, outputSize)
			if err := rt.SetInput(h, 0, input); err != nil {
				return err
			}
			if err := rt.SetOutput(h, 0, output); err != nil {
				return err
			}
			if err := rt.Invoke(h); err != nil {
				return err
			}

			allZero := true
			for _, b := range output {
				if b != 0 {
					allZero = false
					break
				}
			}
			if allZero {
				fmt.Println("output: all zeros (stub or empty model)")
			} else {
				fmt.Println("output: has values (real backend)")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&inputSize, "input-size", 224*224*3, "input buffer size in bytes")
	cmd.Flags().IntVar(&outputSize, "output-size", 1001*4, "output buffer size in bytes")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagnostics endpoint in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logging.SetLevel(cfg.LogLevel)
			if addr == "" {
				addr = cfg.DiagAddr
			}
			if addr == "" {
				addr = ":9464"
			}
			rt := shim.New(cfg)

			srv := &http.Server{
				Addr:              addr,
				Handler:           diag.NewRouter(rt),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				fmt.Printf("diagnostics listening on %s\n", addr)
				errCh <- srv.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-stop:
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to diag_addr from config, else :9464)")
	return cmd
}
