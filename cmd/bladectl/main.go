// bladectl controls BIOS-resident settings on Razer laptops over USB HID:
// performance mode, fan behaviour, keyboard backlight, lid logo, battery
// charge limiting.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/openblade/bladectl/internal/config"
	"github.com/openblade/bladectl/internal/display"
	"github.com/openblade/bladectl/internal/hid"
	"github.com/openblade/bladectl/pkg/descriptor"
	"github.com/openblade/bladectl/pkg/device"
	"github.com/openblade/bladectl/pkg/settings"
)

const usage = `usage: bladectl [flags] <command>

commands:
  status                 show all readable settings
  info                   show device identity and features
  get <setting>          read one setting
  set <setting> <value>  write one setting
  config show|path|clear manage the cached device

settings: perf, cpu-boost, gpu-boost, fan, fan-rpm, keyboard, logo,
          battery-care, lights-always-on

flags:
  -json          machine-readable output
  -verbose       debug logging
  -pid <hex>     open a specific product id, bypassing detection
`

func main() {
	flags := flag.NewFlagSet("bladectl", flag.ExitOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	jsonOut := flags.Bool("json", false, "machine-readable output")
	verbose := flags.Bool("verbose", false, "debug logging")
	pidArg := flags.String("pid", "", "product id to open directly (hex)")
	flags.Parse(os.Args[1:])

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		os.Exit(2)
	}

	if args[0] == "config" {
		if err := runConfig(args[1:]); err != nil {
			fail(err)
		}
		return
	}

	s, err := openSession(*pidArg)
	if err != nil {
		fail(err)
	}
	defer s.Close()

	switch args[0] {
	case "status":
		st := settings.ReadState(s)
		if *jsonOut {
			err = display.StatusJSON(os.Stdout, st)
		} else {
			display.Status(os.Stdout, s, st)
		}
	case "info":
		if *jsonOut {
			err = display.InfoJSON(os.Stdout, s)
		} else {
			display.Info(os.Stdout, s)
		}
	case "get":
		if len(args) != 2 {
			flags.Usage()
			os.Exit(2)
		}
		var kind settings.Kind
		if kind, err = settings.ParseKind(args[1]); err != nil {
			break
		}
		var v settings.Value
		if v, err = settings.Get(s, kind); err != nil {
			break
		}
		if *jsonOut {
			err = display.SettingJSON(os.Stdout, v)
		} else {
			display.Setting(os.Stdout, v)
		}
	case "set":
		if len(args) != 3 {
			flags.Usage()
			os.Exit(2)
		}
		var kind settings.Kind
		if kind, err = settings.ParseKind(args[1]); err != nil {
			break
		}
		var v settings.Value
		if v, err = settings.ParseValue(kind, args[2]); err != nil {
			break
		}
		err = settings.Apply(s, v)
	default:
		flags.Usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

// openSession connects either to an operator-specified product id or by
// autodetection, trying the cached device first to skip enumeration.
func openSession(pidArg string) (*device.Session, error) {
	mgr, err := hid.NewManager()
	if err != nil {
		return nil, err
	}

	if pidArg != "" {
		pid, err := parsePID(pidArg)
		if err != nil {
			return nil, err
		}
		return device.Connect(mgr, descriptor.Supported, pid)
	}

	if cfg, err := config.Load(); err == nil && cfg.Device.CachedPID != 0 {
		slog.Debug("trying cached device", slog.Int("pid", int(cfg.Device.CachedPID)))
		if s, err := device.Connect(mgr, descriptor.Supported, cfg.Device.CachedPID); err == nil && s.Descriptor() != nil {
			return s, nil
		}
		slog.Debug("cached device unavailable, falling back to detection")
	}

	s, err := device.Detect(mgr, descriptor.Supported)
	if err != nil {
		return nil, err
	}
	if desc := s.Descriptor(); desc != nil {
		if err := config.CacheDevice(desc.PID, desc.ModelPrefix, desc.Name); err != nil {
			slog.Debug("failed to cache device", slog.Any("error", err))
		}
	}
	return s, nil
}

func runConfig(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bladectl config show|path|clear")
	}
	switch args[0] {
	case "show":
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Device.CachedPID == 0 {
			fmt.Println("no cached device")
			return nil
		}
		fmt.Printf("cached device: %s (%s, pid 0x%04x)\n",
			cfg.Device.Name, cfg.Device.Model, cfg.Device.CachedPID)
		return nil
	case "path":
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "clear":
		return config.ClearCache()
	}
	return fmt.Errorf("unknown config command %q", args[0])
}

func parsePID(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return uint16(n), nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "bladectl: %v\n", err)
	os.Exit(1)
}
