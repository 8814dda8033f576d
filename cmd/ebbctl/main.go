package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/ebbctl/ebb"
	"github.com/danmuck/ebbctl/internal/logging"
	"github.com/danmuck/ebbctl/serialport"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml")
	port := flag.String("port", "", "serial device (overrides config)")
	baud := flag.Int("baud", 0, "baud rate (overrides config)")
	list := flag.Bool("list", false, "list serial devices and exit")
	flag.Parse()

	logger := logging.ConfigureRuntime("ebbctl")

	if *list {
		ports, err := serialport.List()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to list serial devices")
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg := defaultRuntimeConfig()
	if *configPath != "" {
		loaded, err := loadRuntimeConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
		cfg = loaded
		log.Info().Str("path", *configPath).Msg("loaded config")
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *baud > 0 {
		cfg.Baud = *baud
	}
	if cfg.Port == "" {
		log.Fatal().Msg("no serial device; pass -port or set port in config")
	}

	client, err := ebb.Open(cfg.Port, cfg.Baud, ebb.Options{
		Timing:   cfg.Timing,
		OldBoard: cfg.OldBoard,
		Logger:   &logger,
	})
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.Port).Msg("failed to open device")
	}
	defer client.Close()

	version, err := client.Version()
	if err != nil {
		log.Fatal().Err(err).Msg("device did not answer version query")
	}
	log.Info().Str("port", cfg.Port).Str("firmware", version).Msg("connected")

	repl(client)
}

func repl(client *ebb.Client) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("type 'help' for commands")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(parts) == 0 {
			continue
		}
		if parts[0] == "quit" || parts[0] == "exit" {
			return
		}
		if err := run(client, parts); err != nil {
			log.Error().Err(err).Str("cmd", parts[0]).Msg("command failed")
		}
	}
}

func run(client *ebb.Client, parts []string) error {
	switch parts[0] {
	case "help":
		printHelp()
		return nil

	case "version":
		v, err := client.Version()
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil

	case "status":
		st, err := client.GeneralStatus()
		if err != nil {
			return err
		}
		fmt.Printf("executing=%v motor1=%v motor2=%v fifoEmpty=%v penDown=%v button=%v\n",
			st.CommandExecuting, st.Motor1Moving, st.Motor2Moving, st.FIFOEmpty, st.PenDown, st.ButtonPressed)
		return nil

	case "pen":
		if len(parts) != 2 {
			return fmt.Errorf("usage: pen up|down|toggle|state")
		}
		switch parts[1] {
		case "up":
			return client.SetPenState(false, -1, -1)
		case "down":
			return client.SetPenState(true, -1, -1)
		case "toggle":
			return client.TogglePen(-1)
		case "state":
			down, err := client.PenDown()
			if err != nil {
				return err
			}
			fmt.Printf("pen down: %v\n", down)
			return nil
		default:
			return fmt.Errorf("usage: pen up|down|toggle|state")
		}

	case "motors":
		if len(parts) != 2 {
			return fmt.Errorf("usage: motors on|off")
		}
		switch parts[1] {
		case "on":
			return client.EnableMotors(ebb.MotorStepDiv16, ebb.MotorStepDiv16)
		case "off":
			return client.EnableMotors(ebb.MotorDisable, ebb.MotorDisable)
		default:
			return fmt.Errorf("usage: motors on|off")
		}

	case "move":
		if len(parts) != 4 {
			return fmt.Errorf("usage: move <durationMs> <steps1> <steps2>")
		}
		args, err := atoiAll(parts[1:])
		if err != nil {
			return err
		}
		return client.Move(args[0], args[1], args[2])

	case "stop":
		info, err := client.EmergencyStop(len(parts) > 1 && parts[1] == "off")
		if err != nil {
			return err
		}
		fmt.Printf("interrupted=%v fifo=%v remaining=%v\n", info.Interrupted, info.FIFOSteps, info.RemainingSteps)
		return nil

	case "pos":
		pos, err := client.StepPositions()
		if err != nil {
			return err
		}
		fmt.Printf("motor1=%d motor2=%d\n", pos[0], pos[1])
		return nil

	case "clear":
		return client.ClearStepPosition()

	case "button":
		pressed, err := client.ButtonPressed()
		if err != nil {
			return err
		}
		fmt.Printf("pressed: %v\n", pressed)
		return nil

	case "nickname":
		if len(parts) > 1 {
			return client.SetNickname(strings.Join(parts[1:], " "))
		}
		name, err := client.Nickname()
		if err != nil {
			return err
		}
		fmt.Println(name)
		return nil

	case "layer":
		if len(parts) > 1 {
			v, err := strconv.Atoi(parts[1])
			if err != nil {
				return fmt.Errorf("invalid layer %q", parts[1])
			}
			return client.SetLayer(v)
		}
		v, err := client.Layer()
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil

	case "analog":
		values, err := client.AnalogValues()
		if err != nil {
			return err
		}
		for ch, v := range values {
			fmt.Printf("ch%02d=%d\n", ch, v)
		}
		return nil

	case "power":
		info, err := client.CurrentInfo()
		if err != nil {
			return err
		}
		fmt.Printf("maxCurrent=%.3fA voltage=%.2fV\n", info.MaxCurrent, info.PowerVoltage)
		return nil

	default:
		return fmt.Errorf("unknown command %q, type 'help'", parts[0])
	}
}

func atoiAll(parts []string) ([]int, error) {
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func printHelp() {
	fmt.Println("version              firmware version string")
	fmt.Println("status               general status flags")
	fmt.Println("pen up|down|toggle   move the pen servo")
	fmt.Println("pen state            query pen position")
	fmt.Println("motors on|off        energize or release the steppers")
	fmt.Println("move D S1 S2         relative move over D ms")
	fmt.Println("stop [off]           emergency stop, 'off' also disables motors")
	fmt.Println("pos                  step positions")
	fmt.Println("clear                zero the step counters")
	fmt.Println("button               PRG button latch")
	fmt.Println("nickname [name]      get or set the board nickname")
	fmt.Println("layer [n]            get or set the layer variable")
	fmt.Println("analog               enabled analog channel readings")
	fmt.Println("power                motor current and supply voltage")
	fmt.Println("quit                 exit")
}
