package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	_ "github.com/mohammed-sarhad-ahmed/skillswap-backend/migrations"
)

type AppointmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	db       *sqlx.DB
	users    UserRepository
	appts    AppointmentRepository
	pgc      *postgres.PostgresContainer
	ctx      context.Context
	teacher  uuid.UUID
	student  uuid.UUID
	slotDate time.Time
}

func (s *AppointmentRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	assert.NoError(s.T(), err)

	db, err := sqlx.Connect("pgx", connStr)
	assert.NoError(s.T(), err)
	s.db = db

	err = goose.Up(db.DB, "../../migrations")
	assert.NoError(s.T(), err)

	s.users = NewPostgresUserRepository(s.db)
	s.appts = NewPostgresAppointmentRepository(s.db)

	s.teacher = s.createUser("teacher@test.com")
	s.student = s.createUser("student@test.com")
	s.slotDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
}

func (s *AppointmentRepositoryIntegrationTestSuite) createUser(email string) uuid.UUID {
	id, err := s.users.Create(s.ctx, &model.User{
		Email:          email,
		PasswordHash:   "hashed_password",
		FullName:       "Integration Test User",
		Credits:        model.DefaultSignupCredits,
		Availability:   model.DefaultAvailability(),
		TeachingSkills: model.SkillList{"go"},
		LearningSkills: model.SkillList{"piano"},
	})
	assert.NoError(s.T(), err)
	return id
}

func (s *AppointmentRepositoryIntegrationTestSuite) TearDownSuite() {
	s.db.Close()
	if err := s.pgc.Terminate(s.ctx); err != nil {
		log.Fatalf("failed to terminate pg container: %s", err)
	}
}

func (s *AppointmentRepositoryIntegrationTestSuite) credits(id uuid.UUID) int {
	user, err := s.users.FindByID(s.ctx, id)
	assert.NoError(s.T(), err)
	return user.Credits
}

func (s *AppointmentRepositoryIntegrationTestSuite) TestBook_DebitsCreditAndBlocksSlot() {
	before := s.credits(s.student)

	appt, err := s.appts.Book(s.ctx, &model.Appointment{
		TeacherID: s.teacher,
		StudentID: s.student,
		Date:      s.slotDate,
		TimeOfDay: "10:00",
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), model.AppointmentStatusPending, appt.Status)
	assert.Equal(s.T(), before-1, s.credits(s.student))

	// Same slot again, from either side, is rejected and nothing is debited.
	_, err = s.appts.Book(s.ctx, &model.Appointment{
		TeacherID: s.teacher,
		StudentID: s.student,
		Date:      s.slotDate,
		TimeOfDay: "10:00",
	})
	assert.ErrorIs(s.T(), err, ErrSlotTaken)
	assert.Equal(s.T(), before-1, s.credits(s.student))

	// Canceling refunds the credit and frees the slot.
	canceled, err := s.appts.Cancel(s.ctx, appt.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), model.AppointmentStatusCanceled, canceled.Status)
	assert.Equal(s.T(), before, s.credits(s.student))

	// Re-canceling is a no-op, not a second refund.
	again, err := s.appts.Cancel(s.ctx, appt.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), model.AppointmentStatusCanceled, again.Status)
	assert.Equal(s.T(), before, s.credits(s.student))

	rebooked, err := s.appts.Book(s.ctx, &model.Appointment{
		TeacherID: s.teacher,
		StudentID: s.student,
		Date:      s.slotDate,
		TimeOfDay: "10:00",
	})
	assert.NoError(s.T(), err)
	assert.NotEqual(s.T(), appt.ID, rebooked.ID)
}

func (s *AppointmentRepositoryIntegrationTestSuite) TestBook_InsufficientCredit() {
	broke := s.createUser("broke@test.com")
	assert.NoError(s.T(), s.users.DecrementCredits(s.ctx, broke, model.DefaultSignupCredits))

	_, err := s.appts.Book(s.ctx, &model.Appointment{
		TeacherID: s.teacher,
		StudentID: broke,
		Date:      s.slotDate,
		TimeOfDay: "15:00",
	})
	assert.ErrorIs(s.T(), err, ErrInsufficientCredit)
}

func (s *AppointmentRepositoryIntegrationTestSuite) TestPurchaseCredits_InsufficientFunds() {
	err := s.users.PurchaseCredits(s.ctx, s.student, 1000)
	assert.ErrorIs(s.T(), err, ErrInsufficientFunds)
}

func TestAppointmentRepositoryIntegration(t *testing.T) {
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("Docker is not available, skipping integration test.")
	}
	suite.Run(t, new(AppointmentRepositoryIntegrationTestSuite))
}
