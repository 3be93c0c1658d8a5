package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pulsarctl/pulsar"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pulsarctl",
	Short: "Pulsar X3 Mouse Control",
	Long:  "Reads and writes Pulsar X3 settings over HID feature reports, wired or wireless",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show all device settings",
	Run:   runInfo,
}

var (
	watchBattery   bool
	watchInterval  time.Duration
	watchThreshold int
)

var batteryCmd = &cobra.Command{
	Use:   "battery",
	Short: "Show battery percentage (wireless only)",
	Run:   runBattery,
}

var dpiCmd = &cobra.Command{
	Use:   "dpi [value]",
	Short: "Get or set DPI (50-26000)",
	Args:  cobra.MaximumNArgs(1),
	Run:   runDPI,
}

var stageCmd = &cobra.Command{
	Use:   "stage [1-6]",
	Short: "Get or switch the active DPI stage",
	Args:  cobra.MaximumNArgs(1),
	Run:   runStage,
}

var lodCmd = &cobra.Command{
	Use:   "lod [0.7|1|2]",
	Short: "Get or set lift-off distance in mm",
	Args:  cobra.MaximumNArgs(1),
	Run:   runLOD,
}

var debounceCmd = &cobra.Command{
	Use:   "debounce [ms]",
	Short: "Get or set button debounce time",
	Args:  cobra.MaximumNArgs(1),
	Run:   runDebounce,
}

var pollingCmd = &cobra.Command{
	Use:   "polling [rate]",
	Short: "Get or set polling rate (write is unreliable on current firmware)",
	Args:  cobra.MaximumNArgs(1),
	Run:   runPolling,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply every setting from the config file",
	Run:   runApply,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "pulsarctl.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	batteryCmd.Flags().BoolVarP(&watchBattery, "watch", "w", false, "keep polling and notify when low")
	batteryCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "battery poll interval")
	batteryCmd.Flags().IntVar(&watchThreshold, "threshold", 15, "low battery percentage")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(batteryCmd)
	rootCmd.AddCommand(dpiCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(lodCmd)
	rootCmd.AddCommand(debounceCmd)
	rootCmd.AddCommand(pollingCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(boolSettingCmd("motion-sync", "Motion Sync",
		(*pulsar.Device).MotionSync, (*pulsar.Device).SetMotionSync))
	rootCmd.AddCommand(boolSettingCmd("angle-snap", "Angle Snapping",
		(*pulsar.Device).AngleSnap, (*pulsar.Device).SetAngleSnap))
	rootCmd.AddCommand(boolSettingCmd("ripple-control", "Ripple Control",
		(*pulsar.Device).RippleControl, (*pulsar.Device).SetRippleControl))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func openMouse() *pulsar.Device {
	mouse, err := pulsar.Connect(pulsar.WithLogger(newLogger()))
	if err != nil {
		if errors.Is(err, pulsar.ErrNotFound) {
			log.Fatalf("Pulsar X3 not found - make sure it's connected (wired or wireless)")
		}
		log.Fatalf("Failed to connect to Pulsar X3: %v", err)
	}
	if verbose {
		fmt.Printf("✓ Found Pulsar X3 (%s mode)\n", mouse.Mode())
	}
	return mouse
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q (use on or off)", s)
	}
}

func formatOnOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// parseIntArg parses a whole-number argument, rejecting trailing garbage
// like "1600abc".
func parseIntArg(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, s)
	}
	return v, nil
}

func parseFloatArg(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, s)
	}
	return v, nil
}

func boolSettingCmd(use, name string, get func(*pulsar.Device) (bool, error), set func(*pulsar.Device, bool) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [on|off]",
		Short: "Get or set " + strings.ToLower(name),
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mouse := openMouse()
			defer mouse.Close()

			if len(args) == 0 {
				on, err := get(mouse)
				if err != nil {
					log.Fatalf("Failed to read %s: %v", strings.ToLower(name), err)
				}
				fmt.Printf("%s: %s\n", name, formatOnOff(on))
				return
			}

			on, err := parseOnOff(args[0])
			if err != nil {
				log.Fatalf("%v", err)
			}
			if err := set(mouse, on); err != nil {
				log.Fatalf("Failed to set %s: %v", strings.ToLower(name), err)
			}
			fmt.Printf("✓ %s %s\n", name, formatOnOff(on))
		},
	}
}

func runInfo(cmd *cobra.Command, args []string) {
	mouse := openMouse()
	defer mouse.Close()

	info, err := mouse.ReadInfo()
	if err != nil {
		log.Fatalf("Failed to read device info: %v", err)
	}

	line := strings.Repeat("=", 70)
	fmt.Println(line)
	fmt.Println("Pulsar X3 Mouse Information")
	fmt.Println(line)
	fmt.Printf("\nMode: %s\n", info.Mode)
	if info.Mode == pulsar.ModeWireless {
		fmt.Printf("Dongle Firmware: %s\n", info.DongleFirmware)
	}
	fmt.Printf("Mouse Firmware: %s\n", info.Firmware)

	if info.DPIX == info.DPIY {
		fmt.Printf("\nDPI: %d (stage %d)\n", info.DPIX, info.Stage)
	} else {
		fmt.Printf("\nDPI: %d x %d (stage %d)\n", info.DPIX, info.DPIY, info.Stage)
	}
	fmt.Printf("Motion Sync: %s\n", formatOnOff(info.MotionSync))
	fmt.Printf("Lift-off Distance: %gmm\n", info.LiftOff)
	fmt.Printf("Angle Snapping: %s\n", formatOnOff(info.AngleSnap))
	fmt.Printf("Ripple Control: %s\n", formatOnOff(info.RippleControl))
	fmt.Printf("Debounce: %dms\n", info.DebounceMs)
	if info.Battery >= 0 {
		fmt.Printf("Battery: %d%%\n", info.Battery)
	}
	if info.PollingRate > 0 {
		fmt.Printf("Polling Rate: %dHz (unreliable)\n", info.PollingRate)
	} else {
		fmt.Println("Polling Rate: Unknown")
	}
	fmt.Println(line)
}

func runBattery(cmd *cobra.Command, args []string) {
	mouse := openMouse()
	defer mouse.Close()

	level, err := mouse.Battery()
	if err != nil {
		var unsupported *pulsar.UnsupportedInModeError
		if errors.As(err, &unsupported) {
			log.Fatalf("Battery is not available in wired mode")
		}
		log.Fatalf("Failed to read battery: %v", err)
	}
	fmt.Printf("🔋 Battery: %d%%\n", level)

	if !watchBattery {
		return
	}

	watcher := NewBatteryWatcher(mouse, watchInterval, watchThreshold, NewNotificationManager())
	watcher.Start()
	defer watcher.Stop()

	fmt.Printf("🔍 Watching battery every %s (low below %d%%, Ctrl+C to stop)...\n", watchInterval, watchThreshold)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	fmt.Println("\n👋 Shutting down...")
}

func runDPI(cmd *cobra.Command, args []string) {
	mouse := openMouse()
	defer mouse.Close()

	if len(args) == 0 {
		x, y, err := mouse.DPI()
		if err != nil {
			log.Fatalf("Failed to read DPI: %v", err)
		}
		if x == y {
			fmt.Printf("DPI: %d\n", x)
		} else {
			fmt.Printf("DPI: %d x %d\n", x, y)
		}
		return
	}

	dpi, err := parseIntArg("DPI value", args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := mouse.SetDPI(dpi); err != nil {
		log.Fatalf("Failed to set DPI: %v", err)
	}
	fmt.Printf("✓ DPI set to %d\n", dpi)
	fmt.Println("Move your mouse to feel the difference!")
}

func runStage(cmd *cobra.Command, args []string) {
	mouse := openMouse()
	defer mouse.Close()

	if len(args) == 0 {
		stage, err := mouse.Stage()
		if err != nil {
			log.Fatalf("Failed to read DPI stage: %v", err)
		}
		fmt.Printf("DPI Stage: %d\n", stage)
		return
	}

	stage, err := parseIntArg("stage", args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := mouse.SetStage(stage); err != nil {
		log.Fatalf("Failed to switch stage: %v", err)
	}
	fmt.Printf("✓ Switched to DPI stage %d\n", stage)
}

func runLOD(cmd *cobra.Command, args []string) {
	mouse := openMouse()
	defer mouse.Close()

	if len(args) == 0 {
		mm, err := mouse.LiftOffDistance()
		if err != nil {
			log.Fatalf("Failed to read lift-off distance: %v", err)
		}
		fmt.Printf("Lift-off Distance: %gmm\n", mm)
		return
	}

	mm, err := parseFloatArg("lift-off distance", args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := mouse.SetLiftOffDistance(mm); err != nil {
		log.Fatalf("Failed to set lift-off distance: %v", err)
	}
	fmt.Printf("✓ Lift-off distance set to %gmm\n", mm)
}

func runDebounce(cmd *cobra.Command, args []string) {
	mouse := openMouse()
	defer mouse.Close()

	if len(args) == 0 {
		ms, err := mouse.Debounce()
		if err != nil {
			log.Fatalf("Failed to read debounce: %v", err)
		}
		fmt.Printf("Debounce: %dms\n", ms)
		return
	}

	ms, err := parseIntArg("debounce value", args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := mouse.SetDebounce(ms); err != nil {
		log.Fatalf("Failed to set debounce: %v", err)
	}
	fmt.Printf("✓ Debounce set to %dms\n", ms)
}

func runPolling(cmd *cobra.Command, args []string) {
	mouse := openMouse()
	defer mouse.Close()

	if len(args) == 0 {
		rate, err := mouse.PollingRate()
		if err != nil {
			log.Fatalf("Failed to read polling rate: %v", err)
		}
		fmt.Printf("Polling Rate: %dHz (unreliable)\n", rate)
		return
	}

	rate, err := parseIntArg("polling rate", args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := mouse.SetPollingRate(rate); err != nil {
		log.Fatalf("Failed to set polling rate: %v", err)
	}
	fmt.Printf("✓ Polling rate command sent (%dHz)\n", rate)
	fmt.Println("⚠️ Polling rate writes are known not to stick on current firmware - re-query to verify")
}

func runApply(cmd *cobra.Command, args []string) {
	profile, err := LoadProfile(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mouse := openMouse()
	defer mouse.Close()

	applied, err := profile.Apply(mouse)
	if err != nil {
		log.Fatalf("Failed to apply profile: %v", err)
	}
	if applied == 0 {
		fmt.Printf("Nothing to apply - no settings are set in %s\n", configFile)
		return
	}
	fmt.Printf("✓ Applied %d settings from %s\n", applied, configFile)
}
