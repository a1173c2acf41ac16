package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"stroymart/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CategoryRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    CategoryRepository
	context context.Context
}

func (suite *CategoryRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewCategoryRepo(mock)
	suite.context = context.Background()
}

func (suite *CategoryRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestCategoryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryRepoTestSuite))
}

func categoryRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name_primary", "name_secondary", "parent_id", "level",
		"path", "icon_url", "is_active", "sort_order", "created_at", "updated_at"})
}

func addCategoryRow(rows *pgxmock.Rows, category *models.Category) *pgxmock.Rows {
	return rows.AddRow(category.ID, category.NamePrimary, category.NameSecondary, category.ParentID,
		category.Level, category.Path, category.IconURL, category.IsActive, category.SortOrder,
		time.Now(), time.Now())
}

func (suite *CategoryRepoTestSuite) TestCreate_RootPathIsOwnID() {
	category := &models.Category{
		ID:            uuid.New(),
		NamePrimary:   "Electrical",
		NameSecondary: "Elektrika",
		IsActive:      true,
	}

	suite.mock.ExpectExec(`INSERT INTO categories`).
		WithArgs(category.ID, "Electrical", "Elektrika", category.ParentID,
			0, category.ID.String(), category.IconURL, true, 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, category)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, category.Level)
	assert.Equal(suite.T(), category.ID.String(), category.Path)
}

func (suite *CategoryRepoTestSuite) TestCreate_ChildExtendsParentPath() {
	parent := &models.Category{
		ID:          uuid.New(),
		NamePrimary: "Electrical",
		Level:       0,
		IsActive:    true,
	}
	parent.Path = parent.ID.String()

	child := &models.Category{
		ID:            uuid.New(),
		NamePrimary:   "Cables",
		NameSecondary: "Kabellar",
		ParentID:      &parent.ID,
		IsActive:      true,
	}

	suite.mock.ExpectQuery(`SELECT .+ FROM categories WHERE id = \$1`).
		WithArgs(parent.ID).
		WillReturnRows(addCategoryRow(categoryRows(), parent))
	suite.mock.ExpectExec(`INSERT INTO categories`).
		WithArgs(child.ID, "Cables", "Kabellar", child.ParentID,
			1, parent.Path+"/"+child.ID.String(), child.IconURL, true, 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, child)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, child.Level)
	assert.Equal(suite.T(), parent.Path+"/"+child.ID.String(), child.Path)
}

func (suite *CategoryRepoTestSuite) TestCreate_MissingParentFails() {
	child := &models.Category{
		ID:          uuid.New(),
		NamePrimary: "Cables",
		IsActive:    true,
	}
	missing := uuid.New()
	child.ParentID = &missing

	suite.mock.ExpectQuery(`SELECT .+ FROM categories WHERE id = \$1`).
		WithArgs(missing).
		WillReturnError(pgx.ErrNoRows)

	err := suite.repo.Create(suite.context, child)
	assert.ErrorIs(suite.T(), err, ErrCategoryNotFound)
}

func (suite *CategoryRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(`SELECT .+ FROM categories WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	category, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, ErrCategoryNotFound)
	assert.Nil(suite.T(), category)
}

func (suite *CategoryRepoTestSuite) TestListActive_ReturnsOrderedRows() {
	first := &models.Category{ID: uuid.New(), NamePrimary: "Electrical", IsActive: true, SortOrder: 1}
	second := &models.Category{ID: uuid.New(), NamePrimary: "Plumbing", IsActive: true, SortOrder: 2}
	first.Path = first.ID.String()
	second.Path = second.ID.String()

	rows := categoryRows()
	addCategoryRow(rows, first)
	addCategoryRow(rows, second)

	suite.mock.ExpectQuery(`FROM categories\s+WHERE is_active = TRUE\s+ORDER BY sort_order ASC`).
		WillReturnRows(rows)

	categories, err := suite.repo.ListActive(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), categories, 2)
	assert.Equal(suite.T(), "Electrical", categories[0].NamePrimary)
	assert.Equal(suite.T(), "Plumbing", categories[1].NamePrimary)
}

func (suite *CategoryRepoTestSuite) TestFindActiveByNameAndParent_Found() {
	category := &models.Category{ID: uuid.New(), NamePrimary: "Electrical", IsActive: true}
	category.Path = category.ID.String()

	suite.mock.ExpectQuery(`LOWER\(name_primary\) = LOWER\(\$1\)`).
		WithArgs("electrical", (*uuid.UUID)(nil)).
		WillReturnRows(addCategoryRow(categoryRows(), category))

	found, err := suite.repo.FindActiveByNameAndParent(suite.context, "electrical", nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), category.ID, found.ID)
}

func (suite *CategoryRepoTestSuite) TestFindActiveByNameAndParent_NotFound() {
	suite.mock.ExpectQuery(`LOWER\(name_primary\) = LOWER\(\$1\)`).
		WithArgs("ghost", (*uuid.UUID)(nil)).
		WillReturnError(pgx.ErrNoRows)

	found, err := suite.repo.FindActiveByNameAndParent(suite.context, "ghost", nil)
	assert.ErrorIs(suite.T(), err, ErrCategoryNotFound)
	assert.Nil(suite.T(), found)
}

func (suite *CategoryRepoTestSuite) TestSetIconURL_NoRowsMeansNotFound() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE categories SET icon_url = \$1`).
		WithArgs("https://cdn.example.com/icon.png", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.SetIconURL(suite.context, id, "https://cdn.example.com/icon.png")
	assert.ErrorIs(suite.T(), err, ErrCategoryNotFound)
}

func (suite *CategoryRepoTestSuite) TestDeactivate_Success() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE categories SET is_active = FALSE`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Deactivate(suite.context, id)
	assert.NoError(suite.T(), err)
}

func (suite *CategoryRepoTestSuite) TestInTx_CommitsOnSuccess() {
	id := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE categories SET is_active = FALSE`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.InTx(suite.context, func(repo CategoryRepository) error {
		return repo.Deactivate(suite.context, id)
	})
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CategoryRepoTestSuite) TestInTx_RollsBackOnError() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectRollback()

	boom := errors.New("walk failed")
	err := suite.repo.InTx(suite.context, func(repo CategoryRepository) error {
		return boom
	})
	assert.ErrorIs(suite.T(), err, boom)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
