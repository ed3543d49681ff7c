package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/gg"

	"Glowpoint/internal/command"
	"Glowpoint/internal/config"
	"Glowpoint/internal/net"
	"Glowpoint/internal/ui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "settings file")
	verbose := flag.Bool("verbose", false, "log rasterizer diagnostics")
	send := flag.String("send", "", "send a command (e.g. draw_red, undo) to a running overlay and exit")
	discover := flag.Bool("discover", false, "list overlays advertised on the local network and exit")
	flag.Parse()

	if *verbose {
		gg.SetLogger(slog.Default())
	}

	store, err := config.Load(*configPath)
	if err != nil {
		log.Printf("[config] %v, using defaults", err)
	}

	switch {
	case *discover:
		runDiscover()
		return
	case *send != "":
		runSend(store.Snapshot().Remote.Addr, *send)
		return
	}

	if err := store.EnsureFile(); err != nil {
		log.Printf("[config] %v", err)
	}
	runOverlay(store)
}

func runOverlay(store *config.Store) {
	log.Printf("Starting overlay, settings in %s", store.Path())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := command.NewQueue(64)
	app := ui.New(store, queue)

	if remote := store.Snapshot().Remote; remote.Enabled {
		srv := net.NewServer(queue, app.Engine().Status)
		app.OnStatus(srv.Notify)
		go func() {
			err := srv.ListenAndServe(ctx, remote.Addr, func(port int) {
				log.Printf("[remote] control URL: %s", net.RemoteURL(remote.Addr, port))
				if !remote.Advertise {
					return
				}
				mdnsServer, err := net.Advertise(port)
				if err != nil {
					log.Printf("[remote] %v", err)
					return
				}
				go func() {
					<-ctx.Done()
					mdnsServer.Shutdown()
				}()
			})
			if err != nil {
				log.Printf("[remote] %v", err)
			}
		}()
	}

	app.Run(ctx)
	log.Println("Overlay stopped")
}

func runSend(addr, line string) {
	reply, err := net.Send(context.Background(), addr, line)
	if err != nil {
		log.Fatalf("[remote] %v", err)
	}
	fmt.Println(reply.Command)
}

func runDiscover() {
	n := 0
	err := net.Browse(func(addr string) {
		n++
		fmt.Println(addr)
	})
	if err != nil {
		log.Fatalf("[remote] browse: %v", err)
	}
	if n == 0 {
		log.Println("[remote] no overlays found")
	}
}
