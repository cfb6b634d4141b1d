package main

import (
	"fmt"

	"github.com/notargets/gridfield/solver"
	"github.com/notargets/gridfield/utils"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Integrate the damped drift model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, m, err := setup()
		if err != nil {
			return err
		}

		out, err := utils.NewOutput(cfg.Output, rank)
		if err != nil {
			return err
		}
		defer out.Close()
		log := out.WithField("rank", rank)
		utils.SetFatalLogger(log)
		defer utils.SetFatalLogger(nil)
		log.Info(m.String())

		model := newDriftModel(m)
		p := solver.NewPacker(m)
		if err := model.register(p); err != nil {
			return fmt.Errorf("failed to register variables: %w", err)
		}

		s := solver.NewSolver(p, solver.NewLowStorageRK(cfg.Solver), cfg.Solver, log)
		if err := s.Init(model.physics, 0); err != nil {
			return err
		}
		if err := s.Run(model.monitor(log, s)); err != nil {
			return err
		}

		log.WithField("t", s.Time()).Info("Run finished")
		return nil
	},
}
