package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simdata/simstore/internal/category"
	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/store"
)

var (
	filterAt    float64
	filterExprs []string
	filterTypes string
)

var filterCmd = &cobra.Command{
	Use:   "filter SCENARIO",
	Short: "List the entities matching category filters",
	Long: `Loads SCENARIO, advances the clock to --at and evaluates each
category filter against the entities' current category data. Filters come
from --filter or, when none is given, from the scenario's "filters" list.

A filter is serialized as
  Name(on/off)~Value(on/off)~...`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().Float64Var(&filterAt, "at", 0, "clock value")
	filterCmd.Flags().StringArrayVarP(&filterExprs, "filter", "f", nil, "serialized category filter (repeatable)")
	filterCmd.Flags().StringVar(&filterTypes, "type", "all", "entity type to consider")
}

func runFilter(cmd *cobra.Command, args []string) error {
	typ, ok := simdata.ParseObjectType(filterTypes)
	if !ok {
		return fmt.Errorf("unknown entity type %q", filterTypes)
	}
	sess, err := openSession(cmd.Context(), cfg, args[0], logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	exprs := filterExprs
	if len(exprs) == 0 {
		exprs = sess.scenario.Filters
	}
	if len(exprs) == 0 {
		return fmt.Errorf("%s: no filters given", args[0])
	}

	sess.store.Update(filterAt)
	for _, expr := range exprs {
		if err := printMatches(cmd.OutOrStdout(), sess.store, expr, typ); err != nil {
			return err
		}
	}
	return nil
}

func printMatches(out io.Writer, s *store.MemoryStore, expr string, typ simdata.ObjectType) error {
	f := category.NewFilter(s.CategoryNames(), false, logger)
	defer f.Close()
	if !f.Deserialize(expr, true) {
		return fmt.Errorf("invalid filter %q", expr)
	}
	fmt.Fprintf(out, "%s\n", f.Serialize(true))
	matched := 0
	for _, id := range s.IDList(typ) {
		if !f.MatchData(s, id) {
			continue
		}
		matched++
		fmt.Fprintf(out, "  %d\t%s\t%s\n", id, s.ObjectType(id), s.CommonPrefs(id).GetName())
	}
	logger.Debug("filter evaluated", zap.String("filter", expr), zap.Int("matched", matched))
	return nil
}
