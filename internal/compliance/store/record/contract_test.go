package record_test

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/suite"

	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/store/record"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/platform/sentinel"
)

// recordStore is the surface every backend shares.
type recordStore interface {
	Find(ctx context.Context, userID id.UserID) (models.ComplianceInfo, error)
	Update(ctx context.Context, userID id.UserID, fn record.UpdateFunc) (models.ComplianceInfo, error)
}

// storeContract holds behaviour every backend must show. Backend suites
// embed it and set store in their SetupTest.
type storeContract struct {
	suite.Suite
	store recordStore
	// writers bounds the concurrent-edit test for optimistic backends.
	writers int
}

func setField(field models.FieldName, value any) record.UpdateFunc {
	return func(current models.ComplianceInfo) (models.ComplianceInfo, error) {
		return models.Apply(current, models.Patch{field: value})
	}
}

func (s *storeContract) TestFindMissing() {
	_, err := s.store.Find(context.Background(), id.NewUserID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *storeContract) TestFirstUpdateStartsFromEmpty() {
	ctx := context.Background()
	userID := id.NewUserID()

	var seen models.ComplianceInfo
	got, err := s.store.Update(ctx, userID, func(current models.ComplianceInfo) (models.ComplianceInfo, error) {
		seen = current
		current.City = "Lisbon"
		return current, nil
	})
	s.Require().NoError(err)
	s.Equal(models.ComplianceInfo{}, seen)
	s.Equal("Lisbon", got.City)

	found, err := s.store.Find(ctx, userID)
	s.Require().NoError(err)
	s.Equal("Lisbon", found.City)
}

func (s *storeContract) TestRoundTripKeepsEveryField() {
	ctx := context.Background()
	userID := id.NewUserID()
	want := models.ComplianceInfo{
		IsBusiness:      true,
		FirstName:       "Ana",
		LastNameKana:    "ヤマダ",
		DOBMonth:        2,
		DOBDay:          29,
		DOBYear:         1996,
		IndividualTaxID: "123-45-6789",
		BusinessTaxID:   "12-3456789",
		BusinessCountry: "US",
		BusinessPhone:   "+14155550100",
	}
	_, err := s.store.Update(ctx, userID, func(models.ComplianceInfo) (models.ComplianceInfo, error) {
		return want, nil
	})
	s.Require().NoError(err)

	found, err := s.store.Find(ctx, userID)
	s.Require().NoError(err)
	s.Equal(want, found)
}

func (s *storeContract) TestUpdateErrorLeavesRecordUntouched() {
	ctx := context.Background()
	userID := id.NewUserID()
	_, err := s.store.Update(ctx, userID, setField(models.FieldCity, "Paris"))
	s.Require().NoError(err)

	boom := errors.New("boom")
	_, err = s.store.Update(ctx, userID, func(models.ComplianceInfo) (models.ComplianceInfo, error) {
		return models.ComplianceInfo{}, boom
	})
	s.Require().ErrorIs(err, boom)

	found, err := s.store.Find(ctx, userID)
	s.Require().NoError(err)
	s.Equal("Paris", found.City)
}

func (s *storeContract) TestConcurrentEditsToDifferentFieldsAreKept() {
	ctx := context.Background()
	userID := id.NewUserID()

	fields := []models.FieldName{
		models.FieldFirstName, models.FieldLastName, models.FieldCity, models.FieldState,
		models.FieldZipCode, models.FieldStreetAddress, models.FieldJobTitle, models.FieldNationality,
	}
	if s.writers > 0 && s.writers < len(fields) {
		fields = fields[:s.writers]
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(fields))
	for _, f := range fields {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.store.Update(ctx, userID, setField(f, "v-"+string(f))); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	found, err := s.store.Find(ctx, userID)
	s.Require().NoError(err)
	for _, f := range fields {
		v, ok := found.StringValue(f)
		s.Require().True(ok)
		s.Equal("v-"+string(f), v, "edit to %s was lost", f)
	}
}
