package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"houseprice/internal/model"
	"houseprice/internal/service"
	"houseprice/internal/ui"
)

// probeGrace bounds how long predict waits for the liveness probe once the
// prediction itself has finished
const probeGrace = 2 * time.Second

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "check that the prediction service is reachable",
		Action: func(c *cli.Context) error {
			cfg, log, err := loadConfig(c)
			if err != nil {
				return err
			}
			defer log.Sync()

			svc := service.NewPredictionService(service.NewPredictorClient(&cfg.Predictor), nil, log)
			ctrl := ui.NewController(svc, ui.NewTerminalRenderer(c.App.Writer), ui.Options{})
			defer ctrl.Close()

			if st := ctrl.CheckStatus(c.Context); st.Status != ui.StatusConnected {
				return cli.Exit("", ExitFailure)
			}
			return nil
		},
	}
}

func predictCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "area", Usage: "lot area in square feet", Required: true},
		&cli.StringFlag{Name: "bedrooms", Usage: "number of bedrooms", Required: true},
		&cli.StringFlag{Name: "bathrooms", Usage: "number of bathrooms", Required: true},
		&cli.StringFlag{Name: "stories", Usage: "number of stories", Required: true},
		&cli.StringFlag{Name: "parking", Usage: "parking spaces", Value: "0"},
	}
	defaults := model.DefaultForm()
	for _, f := range []struct{ name, value string }{
		{"mainroad", defaults.MainRoad},
		{"guestroom", defaults.GuestRoom},
		{"basement", defaults.Basement},
		{"hotwaterheating", defaults.HotWaterHeating},
		{"airconditioning", defaults.AirConditioning},
		{"prefarea", defaults.PrefArea},
	} {
		flags = append(flags, &cli.StringFlag{Name: f.name, Usage: "yes or no", Value: f.value})
	}
	flags = append(flags, &cli.StringFlag{
		Name:  "furnishingstatus",
		Usage: "one of furnished, semi-furnished, unfurnished",
		Value: defaults.FurnishingStatus,
	})

	return &cli.Command{
		Name:  "predict",
		Usage: "request a price estimate for one house",
		Flags: flags,
		Action: func(c *cli.Context) error {
			cfg, log, err := loadConfig(c)
			if err != nil {
				return err
			}
			defer log.Sync()

			svc := service.NewPredictionService(service.NewPredictorClient(&cfg.Predictor), nil, log)
			ctrl := ui.NewController(svc, ui.NewTerminalRenderer(c.App.Writer), ui.Options{})
			defer ctrl.Close()

			// The probe runs beside the prediction and never holds it up
			probeCtx, cancelProbe := context.WithCancel(c.Context)
			defer cancelProbe()
			var g errgroup.Group
			g.Go(func() error {
				ctrl.CheckStatus(probeCtx)
				return nil
			})

			form := model.FormFromLookup(c.String)
			st, err := ctrl.Submit(c.Context, form)

			stop := time.AfterFunc(probeGrace, cancelProbe)
			_ = g.Wait()
			stop.Stop()

			if err != nil {
				return cli.Exit(err.Error(), ExitFailure)
			}
			if st.Phase != ui.PhaseSuccess {
				return cli.Exit("", ExitFailure)
			}
			return nil
		},
	}
}
