/*
geomctl runs the SE(3) geometric controller for one mmuav vehicle instance.

Sensor and reference traffic normally arrives over the external bus bridge;
with -scenario set, a built-in situation generator feeds the loop instead so
the controller can be exercised standalone. The per-cycle status record is
streamed to websocket clients on -addr and optionally captured to CSV.
*/
package main

import (
	"flag"
	"log"
	"time"

	"github.com/antonellabarisic/mmuav-gazebo/control"
	"github.com/antonellabarisic/mmuav-gazebo/sim"
	"github.com/antonellabarisic/mmuav-gazebo/telemetry"
)

func main() {
	var (
		rate         float64
		uav          string
		movingMasses bool
		manipulator  bool
		addr         string
		logPath      string
		scenario     string
	)

	const (
		defaultRate     = 100.0
		rateUsage       = "Control loop rate, Hz"
		defaultUAV      = "mmuav"
		uavUsage        = "Vehicle instance namespace"
		defaultMM       = false
		mmUsage         = "Enable the moving-mass auxiliary actuation mode"
		defaultManip    = false
		manipUsage      = "Enable the manipulator auxiliary actuation mode"
		defaultAddr     = ":8118"
		addrUsage       = "Telemetry websocket listen address"
		defaultLog      = ""
		logUsage        = "CSV status capture path (empty disables capture)"
		defaultScenario = ""
		scenarioUsage   = "Built-in situation feed: \"hover\", \"yawstep\" or \"posstep\" (empty expects external updates)"
	)

	flag.Float64Var(&rate, "rate", defaultRate, rateUsage)
	flag.StringVar(&uav, "uav", defaultUAV, uavUsage)
	flag.BoolVar(&movingMasses, "moving-masses", defaultMM, mmUsage)
	flag.BoolVar(&manipulator, "manipulator", defaultManip, manipUsage)
	flag.StringVar(&addr, "addr", defaultAddr, addrUsage)
	flag.StringVar(&logPath, "log", defaultLog, logUsage)
	flag.StringVar(&scenario, "scenario", defaultScenario, scenarioUsage)
	flag.Parse()

	if movingMasses && manipulator {
		log.Fatal("geomctl: -moving-masses and -manipulator are mutually exclusive")
	}

	room := telemetry.NewRoom()
	streamer := telemetry.NewStreamer(room)

	var csvLogger *telemetry.CSVLogger
	if logPath != "" {
		var err error
		csvLogger, err = telemetry.NewCSVLogger(logPath)
		if err != nil {
			log.Fatalf("geomctl: opening status capture: %v", err)
		}
		defer csvLogger.Close()
	}

	opts := []control.Option{
		control.WithStatusOutput(func(st control.Status) {
			streamer.Publish(st)
			if csvLogger != nil {
				csvLogger.Log(st)
			}
		}),
		control.WithCommandOutput(func(cmd control.RotorCommand) {
			// The bus bridge picks commands up here; standalone runs
			// only observe them through the status stream.
		}),
	}
	switch {
	case movingMasses:
		opts = append(opts, control.WithMovingMasses())
	case manipulator:
		opts = append(opts, control.WithManipulator())
	}

	c := control.NewController(rate, opts...)
	log.Printf("geomctl: %s flight %s", uav, c.FlightID())

	if scenario != "" {
		var sit sim.Situation
		switch scenario {
		case "hover":
			sit = sim.Hover{Height: 1}
		case "yawstep":
			sit = sim.YawStep{Height: 1, At: 5, Angle: 0.8}
		case "posstep":
			sit = sim.PositionStep{Height: 1, At: 5, Step: [3]float64{1, 0, 0}}
		default:
			log.Fatalf("geomctl: unknown scenario %q", scenario)
		}
		now := func() float64 { return float64(time.Now().UnixNano()) / 1e9 }
		go sim.Feed(c, sit, now, time.Second/time.Duration(rate))
	}

	go func() {
		if err := telemetry.Serve(addr, room); err != nil {
			log.Fatal("geomctl: telemetry server:", err)
		}
	}()

	c.Run()
}
