// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command ef is the EventFlow CLI: compare, bucket-sum, and optical-flow
// subcommands over UEC JSONL traces.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"eventflow/internal/ledger"
	"eventflow/internal/logsink"
	"eventflow/internal/metrics"
	"eventflow/internal/uecio"
	"eventflow/pkg/bucket"
	"eventflow/pkg/compare"
	"eventflow/pkg/flow"
)

// errHelp is the sentinel a subcommand's arg parser returns when -help/-h
// was seen: main must still exit 2 for it (a preserved quirk of the
// reference CLI), it just skips printing "Error: ...\n" first.
var errHelp = fmt.Errorf("__HELP__")

func printTopHelp() {
	fmt.Println(`EventFlow CLI
Usage:
  ef <subcommand> [options]

Subcommands:
  compare    Compare two UEC JSONL traces with time/value tolerances.
  flow       Run the Shift-Delay-Fuse optical-flow kernel over a trace.
  bucket     Run the bucket-sum kernel over a trace.

Run:
  ef compare -help
  ef flow -help
  ef bucket -help
for detailed options and examples.`)
}

func printCompareHelp() {
	fmt.Println(`ef compare -gold <gold.jsonl> -test <test.jsonl> -tolerance-time <f64> -tolerance-val <f64>

Options:
  -gold PATH             Path to golden/reference UEC JSONL file.
  -test PATH             Path to candidate/test UEC JSONL file.
  -tolerance-time F64    Allowed absolute timestamp delta in seconds.
  -tolerance-val F64     Allowed absolute numeric payload delta.
  -metrics-addr ADDR     Serve Prometheus metrics at ADDR for the run.
  -ledger NAME           Run-ledger adapter: mock|redis|kafka|postgres (default mock).
  -redis-addr ADDR       Redis address for -ledger redis.
  -kafka-topic NAME      Kafka topic for -ledger kafka.

Example:
  ef compare -gold out/golden.jsonl -test out/candidate.jsonl -tolerance-time 1e-6 -tolerance-val 1e-5`)
}

func printFlowHelp() {
	fmt.Println(`ef flow -in <path> -out <path> -width <int> -height <int> -window-us <int> -delay-us <int> -edge-delay-us <int> -min-count <int>

Options:
  -in PATH               Input UEC JSONL trace.
  -out PATH              Output UEC JSONL trace.
  -width INT             Frame width in pixels.
  -height INT            Frame height in pixels.
  -window-us INT         Coincidence window, microseconds.
  -delay-us INT          Neighbor delay, microseconds.
  -edge-delay-us INT     Additional edge delay, microseconds.
  -min-count INT         Minimum combined A+B count to emit.
  -mode NAME             batch|streaming|passthrough (default batch).
  -metrics-addr ADDR     Serve Prometheus metrics at ADDR for the run.`)
}

func printBucketHelp() {
	fmt.Println(`ef bucket -in <path> -out <path> -dt-ns <int>

Options:
  -in PATH      Input UEC JSONL trace.
  -out PATH     Output UEC JSONL trace.
  -dt-ns INT    Bucket width in nanoseconds.`)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printTopHelp()
		return 0
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "compare":
		return runCompare(rest)
	case "flow":
		return runFlow(rest)
	case "bucket":
		return runBucket(rest)
	case "-help", "--help", "-h":
		printTopHelp()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", sub)
		printTopHelp()
		return 2
	}
}

// requireFlags returns an error naming the first flag in names that fs.Parse
// did not see an explicit value for. flag.FlagSet has no notion of a
// required flag, so callers that need one check fs.Visit's output instead
// of relying on zero values (which are often valid user input too).
func requireFlags(fs *flag.FlagSet, names ...string) error {
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	for _, n := range names {
		if !seen[n] {
			return fmt.Errorf("missing required -%s", n)
		}
	}
	return nil
}

// maybeServeMetrics starts serving /metrics on addr if addr is non-empty,
// returning a shutdown func. Serving runs only for the lifetime of the
// command, matching the simulator tool's convention of exposing metrics
// while the process is doing work. The returned Set owns a private
// registry, so building one per invocation never collides with another
// Set built earlier in the same process.
func maybeServeMetrics(addr string) (*metrics.Set, func()) {
	set := metrics.NewSet()
	if addr == "" {
		return set, func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", set.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logsink.Emit("error", fmt.Sprintf("metrics server: %v", err))
		}
	}()
	return set, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func reportRun(adapter, redisAddr, kafkaTopic, runID, kind string, eventCount int, ok bool, detail any) {
	l, err := ledger.Build(adapter, ledger.Options{RedisAddr: redisAddr, KafkaTopic: kafkaTopic})
	if err != nil {
		logsink.Emit("warn", fmt.Sprintf("ledger %q unavailable: %v", adapter, err))
		return
	}
	b, _ := json.Marshal(detail)
	rec := ledger.RunRecord{RunID: runID, Kind: kind, EventCount: eventCount, Ok: ok, DetailJSON: string(b)}
	if err := l.CommitRuns(context.Background(), []ledger.RunRecord{rec}); err != nil {
		logsink.Emit("warn", fmt.Sprintf("ledger commit failed: %v", err))
	}
}

type compareOptions struct {
	gold, test            string
	tolTime, tolVal       float64
	metricsAddr           string
	ledgerAdapter         string
	redisAddr, kafkaTopic string
}

func parseCompareArgs(args []string) (compareOptions, error) {
	var o compareOptions
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVar(&o.gold, "gold", "", "path to golden/reference UEC JSONL file")
	fs.StringVar(&o.test, "test", "", "path to candidate/test UEC JSONL file")
	fs.Float64Var(&o.tolTime, "tolerance-time", 0, "allowed absolute timestamp delta in seconds")
	fs.Float64Var(&o.tolVal, "tolerance-val", 0, "allowed absolute numeric payload delta")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics at this address for the run")
	fs.StringVar(&o.ledgerAdapter, "ledger", "", "run-ledger adapter: mock|redis|kafka|postgres (default mock)")
	fs.StringVar(&o.redisAddr, "redis-addr", "", "Redis address for -ledger redis")
	fs.StringVar(&o.kafkaTopic, "kafka-topic", "", "Kafka topic for -ledger kafka")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printCompareHelp()
			return o, errHelp
		}
		return o, err
	}
	if err := requireFlags(fs, "gold", "test", "tolerance-time", "tolerance-val"); err != nil {
		return o, err
	}
	return o, nil
}

func runCompare(args []string) int {
	opts, err := parseCompareArgs(args)
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
			printCompareHelp()
		}
		return 2
	}

	set, stop := maybeServeMetrics(opts.metricsAddr)
	defer stop()

	summary, err := compare.Run(compare.Options{Gold: opts.gold, Test: opts.test, TolTime: opts.tolTime, TolVal: opts.tolVal})
	ok := err == nil
	if ok {
		set.CompareLastResult.Set(1)
	} else {
		set.CompareLastResult.Set(0)
		set.KernelEvents.WithLabelValues("compare", "error").Inc()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "COMPARE MISMATCH: %s\n", err)
		reportRun(opts.ledgerAdapter, opts.redisAddr, opts.kafkaTopic, runID(opts.gold, opts.test), "compare", 0, false, map[string]string{"error": err.Error()})
		return 1
	}

	set.KernelEvents.WithLabelValues("compare", "matched").Add(float64(summary.Events))
	fmt.Printf("OK: matched %d events (meta gold=%d, test=%d) within tol_time=%gs tol_val=%g\n",
		summary.Events, summary.MetaGold, summary.MetaTest, summary.TolTime, summary.TolVal)
	reportRun(opts.ledgerAdapter, opts.redisAddr, opts.kafkaTopic, runID(opts.gold, opts.test), "compare", summary.Events, true, summary)
	return 0
}

type flowOptions struct {
	in, out                        string
	width, height                  int64
	windowUs, delayUs, edgeDelayUs int64
	minCount                       int64
	mode, metricsAddr              string
}

func parseFlowArgs(args []string) (flowOptions, error) {
	var o flowOptions
	fs := flag.NewFlagSet("flow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVar(&o.in, "in", "", "input UEC JSONL trace")
	fs.StringVar(&o.out, "out", "", "output UEC JSONL trace")
	fs.Int64Var(&o.width, "width", 0, "frame width in pixels")
	fs.Int64Var(&o.height, "height", 0, "frame height in pixels")
	fs.Int64Var(&o.windowUs, "window-us", 0, "coincidence window, microseconds")
	fs.Int64Var(&o.delayUs, "delay-us", 0, "neighbor delay, microseconds")
	fs.Int64Var(&o.edgeDelayUs, "edge-delay-us", 0, "additional edge delay, microseconds")
	fs.Int64Var(&o.minCount, "min-count", 0, "minimum combined A+B count to emit")
	fs.StringVar(&o.mode, "mode", "batch", "batch|streaming|passthrough")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics at this address for the run")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printFlowHelp()
			return o, errHelp
		}
		return o, err
	}
	if err := requireFlags(fs, "in", "out", "width", "height", "window-us", "delay-us", "edge-delay-us", "min-count"); err != nil {
		return o, err
	}
	switch o.mode {
	case "batch", "streaming", "passthrough":
	default:
		return o, fmt.Errorf("unknown -mode: %s", o.mode)
	}
	return o, nil
}

func runFlow(args []string) int {
	opts, err := parseFlowArgs(args)
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
			printFlowHelp()
		}
		return 2
	}

	set, stop := maybeServeMetrics(opts.metricsAddr)
	defer stop()

	p := flow.Params{
		Width: int(opts.width), Height: int(opts.height),
		WindowUs: opts.windowUs, DelayUs: opts.delayUs, EdgeDelayUs: opts.edgeDelayUs,
		MinCount: int(opts.minCount),
	}
	var mode flow.Mode
	switch opts.mode {
	case "streaming":
		mode = flow.ModeStreaming
	case "passthrough":
		mode = flow.ModePassthrough
	default:
		mode = flow.ModeBatch
	}

	const kernelLabel = "optical_flow"
	start := time.Now()
	res, err := flow.RunFile(opts.in, p, mode)
	set.KernelDuration.WithLabelValues(kernelLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		set.KernelEvents.WithLabelValues(kernelLabel, "error").Inc()
		fmt.Fprintf(os.Stderr, "flow: %s\n", err)
		return 1
	}

	w, err := uecio.Create(opts.out)
	if err != nil {
		set.KernelEvents.WithLabelValues(kernelLabel, "error").Inc()
		fmt.Fprintf(os.Stderr, "flow: open output: %s\n", err)
		return 1
	}
	defer w.Close()
	if err := w.WriteHeader(res.Header); err != nil {
		set.KernelEvents.WithLabelValues(kernelLabel, "error").Inc()
		fmt.Fprintf(os.Stderr, "flow: write header: %s\n", err)
		return 1
	}
	for _, ev := range res.Events {
		if err := w.WriteEvent(ev.T, []int64{ev.X, ev.Y, ev.Pol}, 1.0); err != nil {
			set.KernelEvents.WithLabelValues(kernelLabel, "error").Inc()
			fmt.Fprintf(os.Stderr, "flow: write event: %s\n", err)
			return 1
		}
	}
	set.KernelEvents.WithLabelValues(kernelLabel, "emitted").Add(float64(len(res.Events)))

	fmt.Printf("OK: emitted %d events to %s (mode=%s)\n", len(res.Events), opts.out, opts.mode)
	return 0
}

type bucketOptions struct {
	in, out string
	dtNs    int64
}

func parseBucketArgs(args []string) (bucketOptions, error) {
	var o bucketOptions
	fs := flag.NewFlagSet("bucket", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVar(&o.in, "in", "", "input UEC JSONL trace")
	fs.StringVar(&o.out, "out", "", "output UEC JSONL trace")
	fs.Int64Var(&o.dtNs, "dt-ns", 0, "bucket width in nanoseconds")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printBucketHelp()
			return o, errHelp
		}
		return o, err
	}
	if err := requireFlags(fs, "in", "out", "dt-ns"); err != nil {
		return o, err
	}
	return o, nil
}

func runBucket(args []string) int {
	opts, err := parseBucketArgs(args)
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
			printBucketHelp()
		}
		return 2
	}

	ts, vals, err := bucketInputsFromFile(opts.in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bucket: %s\n", err)
		return 1
	}

	outT, outS, err := bucket.Sum(ts, vals, opts.dtNs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bucket: %s\n", err)
		return 1
	}

	w, err := uecio.Create(opts.out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bucket: open output: %s\n", err)
		return 1
	}
	defer w.Close()
	header := flow.SynthesizeHeader(nil, "bucket_sum")
	header.Dims = []string{"value"}
	header.Units.Time = "ns"
	if err := w.WriteHeader(header); err != nil {
		fmt.Fprintf(os.Stderr, "bucket: write header: %s\n", err)
		return 1
	}
	for i := range outT {
		if err := w.WriteEvent(outT[i], nil, float64(outS[i])); err != nil {
			fmt.Fprintf(os.Stderr, "bucket: write event: %s\n", err)
			return 1
		}
	}

	fmt.Printf("OK: emitted %d buckets to %s\n", len(outT), opts.out)
	return 0
}

func runID(a, b string) string {
	return fmt.Sprintf("%s|%s|%d", a, b, time.Now().UnixNano())
}
