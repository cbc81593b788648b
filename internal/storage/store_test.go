package storage

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/physics"
)

func sampleTrajectory() *dynamo.Trajectory {
	tr := dynamo.NewTrajectory(3)
	tr.Append(0, dynamo.State{0, 1})
	tr.Append(0.01, dynamo.State{0.009950000416666667, 0.99000016625})
	tr.Append(0.02, dynamo.State{0.019800006641666805, 0.980001326666736})
	return tr
}

func sampleMetadata() RunMetadata {
	return NewRunMetadata("msd_model", physics.DefaultParams(), map[string]float64{"energy_drift": 0.25})
}

func storeBehaviour(newStore func(dir string) Store) {
	var (
		ctx   context.Context
		dir   string
		store Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		store = newStore(dir)
		Expect(store.Init(ctx)).To(Succeed())
		DeferCleanup(func() {
			Expect(CloseIfSupported(store)).To(Succeed())
		})
	})

	It("lists nothing before the first save", func() {
		runs, err := store.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})

	It("round-trips metadata and samples", func() {
		runID, err := store.Save(ctx, sampleMetadata(), sampleTrajectory())
		Expect(err).NotTo(HaveOccurred())
		Expect(runID).NotTo(BeEmpty())

		meta, err := store.Load(ctx, runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.ID).To(Equal(runID))
		Expect(meta.Model).To(Equal("msd_model"))
		Expect(meta.Samples).To(Equal(3))
		Expect(meta.Params()).To(Equal(physics.DefaultParams()))
		Expect(meta.Metrics).To(HaveKeyWithValue("energy_drift", 0.25))

		tr, err := store.LoadTrajectory(ctx, runID)
		Expect(err).NotTo(HaveOccurred())
		want := sampleTrajectory()
		Expect(tr.Times).To(Equal(want.Times))
		Expect(tr.States).To(Equal(want.States))
	})

	It("lists runs oldest first", func() {
		older := sampleMetadata()
		older.ID = "older"
		older.Timestamp = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := sampleMetadata()
		newer.ID = "newer"
		newer.Timestamp = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

		_, err := store.Save(ctx, newer, sampleTrajectory())
		Expect(err).NotTo(HaveOccurred())
		_, err = store.Save(ctx, older, sampleTrajectory())
		Expect(err).NotTo(HaveOccurred())

		runs, err := store.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(2))
		Expect(runs[0].ID).To(Equal("older"))
		Expect(runs[1].ID).To(Equal("newer"))
	})

	It("reports unknown runs with ErrRunNotFound", func() {
		_, err := store.Load(ctx, "missing")
		Expect(err).To(MatchError(ErrRunNotFound))
		_, err = store.LoadTrajectory(ctx, "missing")
		Expect(err).To(MatchError(ErrRunNotFound))
	})

	It("keeps non-finite samples", func() {
		tr := dynamo.NewTrajectory(2)
		tr.Append(0, dynamo.State{0, 1})
		tr.Append(0.01, dynamo.State{math.NaN(), math.Inf(-1)})

		runID, err := store.Save(ctx, sampleMetadata(), tr)
		Expect(err).NotTo(HaveOccurred())

		loaded, err := store.LoadTrajectory(ctx, runID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Len()).To(Equal(2))
		Expect(math.IsNaN(loaded.States[1][0])).To(BeTrue())
		Expect(math.IsInf(loaded.States[1][1], -1)).To(BeTrue())
	})

	It("rejects trajectories that are not [position, velocity]", func() {
		tr := dynamo.NewTrajectory(1)
		tr.Append(0, dynamo.State{1, 2, 3})
		_, err := store.Save(ctx, sampleMetadata(), tr)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})
}

var _ = Describe("FileStore", func() {
	storeBehaviour(func(dir string) Store { return NewFileStore(dir) })

	It("writes the run directory layout", func() {
		ctx := context.Background()
		dir := GinkgoT().TempDir()
		store := NewFileStore(dir)
		Expect(store.Init(ctx)).To(Succeed())

		runID, err := store.Save(ctx, sampleMetadata(), sampleTrajectory())
		Expect(err).NotTo(HaveOccurred())

		Expect(filepath.Join(dir, runID, "metadata.json")).To(BeAnExistingFile())
		csvPath := filepath.Join(dir, runID, "ode_msd_model.csv")
		Expect(csvPath).To(BeAnExistingFile())

		data, err := os.ReadFile(csvPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix("t,v,x\n0,1,0\n0.01,0.99000016625,0.009950000416666667\n"))
	})

	It("returns an empty list for a missing base directory", func() {
		store := NewFileStore(filepath.Join(GinkgoT().TempDir(), "absent"))
		runs, err := store.List(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})
})

var _ = Describe("FileStore with unencodable metadata", func() {
	It("fails before writing any file", func() {
		ctx := context.Background()
		dir := GinkgoT().TempDir()
		store := NewFileStore(dir)
		Expect(store.Init(ctx)).To(Succeed())

		meta := NewRunMetadata("msd_model", physics.DefaultParams(), map[string]float64{"energy_drift": math.Inf(1)})
		_, err := store.Save(ctx, meta, sampleTrajectory())
		Expect(err).To(HaveOccurred())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})
})

var _ = Describe("SQLiteStore", func() {
	storeBehaviour(func(dir string) Store { return NewSQLiteStore(dir) })

	It("creates the database file", func() {
		dir := GinkgoT().TempDir()
		store := NewSQLiteStore(dir)
		Expect(store.Init(context.Background())).To(Succeed())
		DeferCleanup(store.Close)
		Expect(filepath.Join(dir, DatabaseFile)).To(BeAnExistingFile())
	})

	It("refuses to work before Init", func() {
		store := NewSQLiteStore(GinkgoT().TempDir())
		_, err := store.List(context.Background())
		Expect(err).To(HaveOccurred())
	})

})

var _ = Describe("NewStore", func() {
	DescribeTable("selects a backend",
		func(kind string, ok bool) {
			store, err := NewStore(kind, GinkgoT().TempDir())
			if ok {
				Expect(err).NotTo(HaveOccurred())
				Expect(store).NotTo(BeNil())
			} else {
				Expect(err).To(HaveOccurred())
			}
		},
		Entry("default", "", true),
		Entry("file", "file", true),
		Entry("sqlite", "sqlite", true),
		Entry("unknown", "redis", false),
	)

	It("generates timestamped run ids", func() {
		id := NewRunID(time.Date(2024, 1, 31, 23, 59, 58, 0, time.UTC))
		Expect(id).To(HavePrefix("20240131-235958-"))
		Expect(id).To(HaveLen(len("20240131-235958-") + 8))
	})
})
