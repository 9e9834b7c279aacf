package app

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// CloseOnSignals turns SIGINT and SIGTERM into close requests until stop is
// called.
func (a *App) CloseOnSignals() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGINT, unix.SIGTERM)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case sig := <-ch:
				a.logger.Info(fmt.Sprintf("Received %s, closing window", unix.SignalName(sig.(unix.Signal))))
				a.RequestClose()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
