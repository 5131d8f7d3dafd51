package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"pendulum/host/config"
	"pendulum/host/link"
	"pendulum/host/serial"
	"pendulum/host/telemetry"
)

var (
	configPath = flag.String("config", "", "Path to YAML config file")
	device     = flag.String("device", "", "Serial device path (empty = auto-detect)")
	broker     = flag.String("broker", "", "MQTT broker URL for telemetry republishing (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *broker != "" {
		cfg.MQTTBroker = *broker
	}

	if cfg.Device == "" {
		cfg.Device, err = serial.AutoDetect()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (use -device to select a port)\n", err)
			os.Exit(1)
		}
		fmt.Printf("Auto-detected board on %s\n", cfg.Device)
	}

	port, err := serial.Open(&serial.Config{
		Device:      cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: 100,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	units := link.Units{TravelTicks: cfg.TravelTicks, TicksPerMM: cfg.TicksPerMM}

	var pub *telemetry.Publisher
	if cfg.MQTTBroker != "" {
		pub, err = telemetry.NewPublisher(cfg.MQTTBroker, "pendulum-host", cfg.MQTTTopic, units)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer pub.Close()
		fmt.Printf("Republishing telemetry to %s (%s)\n", cfg.MQTTBroker, cfg.MQTTTopic)
	}

	var monitoring atomic.Bool

	l := link.New(port, link.Options{
		Units: units,
		Bounds: link.Bounds{
			MaxAngleDeg:   cfg.MaxAngleDeg,
			MaxPositionMM: cfg.MaxPositionMM,
		},
		CommandLimit:      int16(cfg.CommandLimit),
		FrictionThreshold: int16(cfg.FrictionThreshold),
		MaxControlInput:   cfg.MaxControlInput,
		OnState: func(st link.State) {
			if monitoring.Load() {
				fmt.Printf("position=%6d ticks (%8.2f mm)  angle=%4d units (%6.3f rad)\n",
					st.Position, units.PositionMM(st.Position),
					st.Angle, link.AngleRadians(st.Angle))
			}
			if pub != nil {
				_ = pub.Publish(st)
			}
		},
	})
	defer l.Close()

	fmt.Printf("Connected to %s at %d baud\n", cfg.Device, cfg.Baud)
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		switch cmd := parts[0]; cmd {
		case "quit", "exit", "q":
			fmt.Println("Stopping motor and disconnecting.")
			return

		case "help", "?":
			printHelp()

		case "ports":
			listPorts()

		case "state":
			st, ok := l.State()
			if !ok {
				fmt.Println("No telemetry received yet.")
				continue
			}
			fmt.Printf("position=%d ticks (%.2f mm)  angle=%d units (%.3f rad)  frames=%d\n",
				st.Position, units.PositionMM(st.Position),
				st.Angle, link.AngleRadians(st.Angle), st.Frames)

		case "monitor":
			monitoring.Store(!monitoring.Load())
			if monitoring.Load() {
				fmt.Println("Monitoring on.")
			} else {
				fmt.Println("Monitoring off.")
			}

		case "drive":
			if len(parts) != 2 {
				fmt.Println("Usage: drive <value>")
				continue
			}
			value, err := strconv.ParseInt(parts[1], 10, 16)
			if err != nil {
				fmt.Printf("Invalid command value %q\n", parts[1])
				continue
			}
			if err := l.Send(int16(value)); err != nil {
				fmt.Printf("Send failed: %v\n", err)
			}

		case "control":
			if len(parts) != 2 {
				fmt.Println("Usage: control <value>")
				continue
			}
			control, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				fmt.Printf("Invalid control value %q\n", parts[1])
				continue
			}
			sent, err := l.Drive(control)
			if err != nil {
				fmt.Printf("Drive failed: %v\n", err)
				continue
			}
			fmt.Printf("Motor command: %d\n", sent)

		case "stop":
			if err := l.Stop(); err != nil {
				fmt.Printf("Stop failed: %v\n", err)
			}

		default:
			fmt.Printf("Unknown command %q (type 'help')\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Println(`Available commands:
  help            Show this help
  ports           List serial ports on this machine
  state           Show the latest telemetry reading
  monitor         Toggle live telemetry printing
  drive <value>   Send a raw motor command (clamped to the command limit)
  control <value> Scale a controller output and send it (bounds-checked)
  stop            Send a zero command
  quit            Stop the motor and exit`)
}

func listPorts() {
	ports, err := serial.Enumerate()
	if err != nil {
		fmt.Printf("Enumeration failed: %v\n", err)
		return
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return
	}
	for _, p := range ports {
		if p.IsUSB {
			fmt.Printf("%s  USB %s:%s serial=%s\n", p.Device, p.VID, p.PID, p.SerialNumber)
		} else {
			fmt.Println(p.Device)
		}
	}
}
