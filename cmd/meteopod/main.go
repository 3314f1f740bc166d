package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"

	"github.com/anelyubin/meteopod/internal/state"
	state_new "github.com/anelyubin/meteopod/internal/state/new"
	"github.com/anelyubin/meteopod/internal/ui"
	"github.com/anelyubin/meteopod/log2"
)

// set via ldflags at build time
var BuildVersion string = "unknown"

func main() {
	flagConfig := flag.String("config", "meteopod.hcl", "")
	flagVersion := flag.Bool("version", false, "print build version and exit")
	flag.Parse()

	if *flagVersion {
		os.Stdout.WriteString("meteopod " + BuildVersion + "\n")
		return
	}

	log := log2.NewStderr(log2.LDebug)
	if sdnotify(log, "READY=0\nSTATUS=start\n") {
		// under systemd assume journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.SetPrefix("meteopod ")

	ctx, g := state_new.NewContext(log)
	g.BuildVersion = BuildVersion
	g.MustInit(ctx, state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig))
	log.Debugf("config=%+v", g.Config)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Infof("signal stop")
		g.Stop()
	}()

	u := new(ui.UI)
	if err := u.Init(ctx); err != nil {
		g.Fatal(errors.Annotate(err, "ui init"))
	}

	sdnotify(log, daemon.SdNotifyReady)
	log.Infof("init complete, running")
	u.Loop(ctx)
	g.Alive.Wait()
}

func sdnotify(log *log2.Log, s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
