package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/store"
)

var replayTimes []float64

var replayCmd = &cobra.Command{
	Use:   "replay SCENARIO",
	Short: "Advance the store clock and print entity state at each time",
	Long: `Loads SCENARIO and calls Update for each clock value, either the
scenario's "times" list or --at. After each step the current record of
every entity is printed: position for platforms, pointing for beams and
gates, "-" for an entity that is off.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Float64SliceVar(&replayTimes, "at", nil, "clock values to replay (overrides the scenario)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context(), cfg, args[0], logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	times := replayTimes
	if len(times) == 0 {
		times = sess.scenario.Times
	}
	if len(times) == 0 {
		return fmt.Errorf("%s: no times to replay", args[0])
	}

	watch := &changeLog{log: logger}
	sess.store.AddListener(watch)
	defer sess.store.RemoveListener(watch)

	out := cmd.OutOrStdout()
	for _, t := range times {
		sess.store.Update(t)
		printState(out, sess.store, t)
	}
	logger.Debug("replay done", zap.Int("prefs_changes", watch.prefs), zap.Int("category_changes", watch.category))
	return nil
}

func printState(out io.Writer, s *store.MemoryStore, t float64) {
	fmt.Fprintf(out, "t=%g\n", t)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, id := range s.IDList(simdata.All) {
		typ := s.ObjectType(id)
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", id, typ, s.CommonPrefs(id).GetName(), describe(s, id, typ))
	}
	w.Flush()
}

// describe renders the current record of id.
func describe(s *store.MemoryStore, id simdata.ObjectID, typ simdata.ObjectType) string {
	switch typ {
	case simdata.Platform:
		u := s.PlatformUpdateSlice(id)
		if c := u.Current(); c != nil {
			return stamp(fmt.Sprintf("pos=(%.1f, %.1f, %.1f)", c.X, c.Y, c.Z), c.Time, u.IsInterpolated())
		}
	case simdata.Beam:
		u := s.BeamUpdateSlice(id)
		if c := u.Current(); c != nil {
			return stamp(fmt.Sprintf("az=%.3f el=%.3f range=%.1f", c.Azimuth, c.Elevation, c.Range), c.Time, u.IsInterpolated())
		}
	case simdata.Gate:
		u := s.GateUpdateSlice(id)
		if c := u.Current(); c != nil {
			return stamp(fmt.Sprintf("az=%.3f el=%.3f range=[%.1f, %.1f]", c.Azimuth, c.Elevation, c.MinRange, c.MaxRange), c.Time, u.IsInterpolated())
		}
	case simdata.Laser:
		u := s.LaserUpdateSlice(id)
		if c := u.Current(); c != nil {
			return stamp(fmt.Sprintf("yaw=%.3f pitch=%.3f", c.Yaw, c.Pitch), c.Time, u.IsInterpolated())
		}
	case simdata.Projector:
		u := s.ProjectorUpdateSlice(id)
		if c := u.Current(); c != nil {
			return stamp(fmt.Sprintf("fov=%.3f", c.Fov), c.Time, u.IsInterpolated())
		}
	case simdata.LobGroup:
		if c := s.LobGroupUpdateSlice(id).Current(); c != nil {
			return stamp(fmt.Sprintf("lobs=%d", len(c.Points)), c.Time, false)
		}
	case simdata.CustomRendering:
		if s.CommonPrefs(id).GetDraw() {
			return "drawn"
		}
	}
	return "-"
}

func stamp(s string, t float64, interpolated bool) string {
	var b strings.Builder
	b.WriteString(s)
	fmt.Fprintf(&b, " @%g", t)
	if interpolated {
		b.WriteString(" (interpolated)")
	}
	return b.String()
}

// changeLog counts and logs notifications during a replay.
type changeLog struct {
	store.NopListener
	log      *zap.Logger
	prefs    int
	category int
}

func (c *changeLog) OnPrefsChange(_ *store.MemoryStore, id simdata.ObjectID) {
	c.prefs++
	c.log.Debug("prefs changed", zap.Uint64("id", uint64(id)))
}

func (c *changeLog) OnCategoryDataChange(_ *store.MemoryStore, id simdata.ObjectID, _ simdata.ObjectType) {
	c.category++
	c.log.Debug("category data changed", zap.Uint64("id", uint64(id)))
}
