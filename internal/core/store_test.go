package core

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"farmboard/pkg/domain"
)

func TestStoreSeedIsCopied(t *testing.T) {
	seed := testDataset().Crops
	store := NewStore(domain.EntityCrop, seed)

	seed[0].PlantingRequirements["soilTemp"] = "mutated"
	seed[0].GrowthStages[0].Duration = 99

	got, err := store.Find(1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.PlantingRequirements["soilTemp"] != "50F" {
		t.Fatalf("seed map aliased: %v", got.PlantingRequirements)
	}
	if got.GrowthStages[0].Duration != 10 {
		t.Fatalf("seed slice aliased: %+v", got.GrowthStages)
	}
}

func TestStoreReturnedValuesAreDetached(t *testing.T) {
	store := NewStore(domain.EntityField, testDataset().Fields)

	list := store.List()
	*list[0].SoilType = "Clay"
	list[0].Name = "renamed"

	found, _ := store.Find(1)
	found.Name = "renamed again"

	again, _ := store.Find(1)
	if again.Name != "North Field" || *again.SoilType != "Loam" {
		t.Fatalf("store mutated through returned value: %+v", again)
	}
}

func TestStoreFindMissing(t *testing.T) {
	store := NewStore(domain.EntityActivity, testDataset().Activities)
	_, err := store.Find(404)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "activity 404 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestStoreInsertAssignsHighWaterID(t *testing.T) {
	store := NewStore(domain.EntityField, []domain.Field{{ID: 7}, {ID: 3}})

	rec, err := store.Insert(func(id int) domain.Field { return domain.Field{ID: id, Name: "new"} })
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec.ID != 8 {
		t.Fatalf("expected id 8, got %d", rec.ID)
	}
	if _, err := store.Remove(8); err != nil {
		t.Fatalf("remove: %v", err)
	}
	rec, _ = store.Insert(func(id int) domain.Field { return domain.Field{ID: id} })
	if rec.ID != 9 {
		t.Fatalf("expected id 9 after deleting max, got %d", rec.ID)
	}
}

func TestStoreInsertIntoEmpty(t *testing.T) {
	store := NewStore[domain.Activity](domain.EntityActivity, nil)
	rec, err := store.Insert(func(id int) domain.Activity { return domain.Activity{ID: id} })
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec.ID != 1 {
		t.Fatalf("expected id 1, got %d", rec.ID)
	}
}

func TestStoreInsertRejectsForeignID(t *testing.T) {
	store := NewStore[domain.Activity](domain.EntityActivity, nil)
	if _, err := store.Insert(func(int) domain.Activity { return domain.Activity{ID: 42} }); err == nil {
		t.Fatalf("expected builder id mismatch error")
	}
	if store.Len() != 0 {
		t.Fatalf("rejected insert must not append")
	}
}

func TestStoreUpdateKeepsPosition(t *testing.T) {
	store := NewStore(domain.EntityField, testDataset().Fields)
	if _, err := store.Update(2, func(f *domain.Field) { f.Name = "Renamed" }); err != nil {
		t.Fatalf("update: %v", err)
	}
	var names []string
	for _, f := range store.List() {
		names = append(names, f.Name)
	}
	want := []string{"North Field", "Renamed", "East Field", "West Field"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("order changed (-want +got):\n%s", diff)
	}
}

func TestStoreUpdateRejectsIDChange(t *testing.T) {
	store := NewStore(domain.EntityField, testDataset().Fields)
	if _, err := store.Update(1, func(f *domain.Field) { f.ID = 99 }); err == nil {
		t.Fatalf("expected id change error")
	}
	if _, err := store.Find(1); err != nil {
		t.Fatalf("record should be untouched: %v", err)
	}
}

func TestStoreRemovePreservesOrder(t *testing.T) {
	store := NewStore(domain.EntityActivity, testDataset().Activities)
	removed, err := store.Remove(3)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.Type != "Irrigation" {
		t.Fatalf("unexpected removed record %+v", removed)
	}
	var ids []int
	for _, a := range store.List() {
		ids = append(ids, a.ID)
	}
	if diff := cmp.Diff([]int{1, 2, 4, 5, 6}, ids); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if _, err := store.Remove(3); !domain.IsNotFound(err) {
		t.Fatalf("second remove should be not found, got %v", err)
	}
}

func TestStoreConcurrentInsertsGetDistinctIDs(t *testing.T) {
	store := NewStore[domain.Activity](domain.EntityActivity, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Insert(func(id int) domain.Activity { return domain.Activity{ID: id} })
		}()
	}
	wg.Wait()
	seen := map[int]bool{}
	for _, a := range store.List() {
		if seen[a.ID] {
			t.Fatalf("duplicate id %d", a.ID)
		}
		seen[a.ID] = true
	}
	if len(seen) != 50 {
		t.Fatalf("expected 50 records, got %d", len(seen))
	}
}
