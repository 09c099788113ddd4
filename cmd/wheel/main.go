// Command wheel launches the steering-wheel mapping's tick loop (spec
// §6). Usage: wheel [flags] [vjoy-device-id].
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ThePletch/steam-vr-wheel/config"
	"github.com/ThePletch/steam-vr-wheel/errkind"
	"github.com/ThePletch/steam-vr-wheel/host"
	"github.com/ThePletch/steam-vr-wheel/internal/openvradapter"
	"github.com/ThePletch/steam-vr-wheel/internal/vjoyadapter"
	"github.com/ThePletch/steam-vr-wheel/logx"
	"github.com/ThePletch/steam-vr-wheel/mapping"
	"github.com/ThePletch/steam-vr-wheel/metrics"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run contains everything main would otherwise do inline, so tests
// (and a human reading this file) can see the exit-code policy from
// spec §6 in one place: 0 on a clean signal exit, non-zero on
// device-wait timeout or a fatal virtual-device error.
func run(args []string) int {
	var configPath string
	var deviceArg string
	var flagArgs []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" && i+1 < len(args) {
			configPath = args[i+1]
			i++
			continue
		}
		switch args[i] {
		case "--tick-rate", "-tick-rate", "--metrics-addr", "-metrics-addr":
			if i+1 < len(args) {
				flagArgs = append(flagArgs, args[i], args[i+1])
				i++
				continue
			}
		}
		if deviceArg == "" && len(args[i]) > 0 && args[i][0] != '-' {
			deviceArg = args[i]
			continue
		}
		flagArgs = append(flagArgs, args[i])
	}

	cfg, err := config.Load(configPath, flagArgs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wheel: loading config:", err)
		return 1
	}
	logx.SetDebug(cfg.Debug)

	deviceID := cfg.VirtualDevice
	if deviceArg != "" {
		parsed, err := strconv.Atoi(deviceArg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "wheel: invalid device id argument:", deviceArg)
			return 1
		}
		deviceID = parsed
	}

	if cfg.MetricsAddr != "" {
		collector := metrics.New()
		go func() {
			if err := collector.ListenAndServe(cfg.MetricsAddr); err != nil {
				logx.Warnf("wheel: metrics server stopped: %v", err)
			}
		}()
	}

	runtime := openvradapter.New()
	device := vjoyadapter.New(deviceID)

	h, err := host.New(runtime, device, mapping.SteeringWheel(), cfg.TickRateHz)
	if err != nil {
		logx.Errorf("wheel: startup failed: %v", err)
		if errors.Is(err, errkind.DeviceTimeout) {
			return 2
		}
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := h.Run(ctx); err != nil {
		logx.Errorf("wheel: fatal error: %v", err)
		return 3
	}
	return 0
}
