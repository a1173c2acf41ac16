package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stroymart/internal/caching"
	"stroymart/internal/models"
	"stroymart/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyPath = errors.New("category path is empty")

const categoryTreeTTL = 10 * time.Minute

type CatalogService interface {
	CategoryTree(ctx context.Context) ([]*models.Category, error)
	CategoryTreeWithCounts(ctx context.Context) ([]*models.CategoryWithCount, error)
	ProductCount(ctx context.Context, categoryID uuid.UUID) (int64, error)
	ResolveCategoryPath(ctx context.Context, path string, parentID *uuid.UUID, secondaryName string) (*models.Category, error)
	SetCategoryIcon(ctx context.Context, id uuid.UUID, url string) error
	DeactivateCategory(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	cache        caching.CacheService
	logger       *zap.Logger
}

func NewCatalogService(categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository, cache caching.CacheService, logger *zap.Logger) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cache:        cache,
		logger:       logger,
	}
}

// BuildCategoryTree materializes parent-pointer rows into nested root
// nodes. Two passes: an id->node map, then a parent attach. Order inside
// Subcategories is the input order, which the repository keeps sorted by
// sort_order. A row whose parent is absent from the input attaches as a
// root so no row is ever dropped. Cycles are not detected; the schema
// guarantees a tree.
func BuildCategoryTree(categories []*models.Category) []*models.Category {
	byID := make(map[uuid.UUID]*models.Category, len(categories))
	for _, category := range categories {
		category.Subcategories = nil
		byID[category.ID] = category
	}

	var roots []*models.Category
	for _, category := range categories {
		if category.ParentID != nil {
			if parent, ok := byID[*category.ParentID]; ok {
				parent.Subcategories = append(parent.Subcategories, category)
				continue
			}
		}
		roots = append(roots, category)
	}
	return roots
}

// CategoryTree returns the active category tree, served from cache when
// possible. A fetch error aborts the whole build; callers never see a
// partial tree.
func (s *catalogService) CategoryTree(ctx context.Context) ([]*models.Category, error) {
	if cached, err := s.cache.GetCategoryTree(ctx); err != nil {
		s.logger.Warn("category tree cache read failed", zap.Error(err))
	} else if cached != nil {
		return BuildCategoryTree(cached), nil
	}

	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	if err := s.cache.SetCategoryTree(ctx, categories, categoryTreeTTL); err != nil {
		s.logger.Warn("category tree cache write failed", zap.Error(err))
	}

	return BuildCategoryTree(categories), nil
}

// CategoryTreeWithCounts annotates every node with the number of
// available products in it and all of its descendants. Counts come from
// one grouped query and are summed bottom-up in memory.
func (s *catalogService) CategoryTreeWithCounts(ctx context.Context) ([]*models.CategoryWithCount, error) {
	roots, err := s.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.productRepo.AvailableCountsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products per category: %w", err)
	}

	annotated := make([]*models.CategoryWithCount, 0, len(roots))
	for _, root := range roots {
		annotated = append(annotated, annotateCounts(root, counts))
	}
	return annotated, nil
}

func annotateCounts(node *models.Category, counts map[uuid.UUID]int64) *models.CategoryWithCount {
	out := &models.CategoryWithCount{Category: *node, ProductCount: counts[node.ID]}
	out.Category.Subcategories = nil
	for _, child := range node.Subcategories {
		annotatedChild := annotateCounts(child, counts)
		out.ProductCount += annotatedChild.ProductCount
		out.Subcategories = append(out.Subcategories, annotatedChild)
	}
	return out
}

// ProductCount returns the number of available products in the category
// and every descendant. When the row carries a materialized path the
// count is a single prefix-match query; otherwise the active table is
// fetched once and the descendant id set is collected in memory, followed
// by a single IN-count. A count failure propagates as an error and is
// never reported as zero.
func (s *catalogService) ProductCount(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return 0, err
	}

	if category.Path != "" {
		return s.productRepo.CountAvailableByPathPrefix(ctx, category.Path)
	}

	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch categories: %w", err)
	}
	ids := DescendantIDs(categories, categoryID)
	return s.productRepo.CountAvailableByCategoryIDs(ctx, ids)
}

// DescendantIDs collects the id of the given category plus every
// descendant, depth-first with no depth limit, from a flat row set.
func DescendantIDs(categories []*models.Category, rootID uuid.UUID) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID, len(categories))
	for _, category := range categories {
		if category.ParentID != nil {
			children[*category.ParentID] = append(children[*category.ParentID], category.ID)
		}
	}

	ids := []uuid.UUID{rootID}
	stack := []uuid.UUID{rootID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, childID := range children[current] {
			ids = append(ids, childID)
			stack = append(stack, childID)
		}
	}
	return ids
}

// ResolveCategoryPath walks a "/"-delimited path segment by segment,
// reusing an existing active category when the primary name matches
// case-insensitively under the same parent and creating the missing
// segments. Only the final segment receives the caller's secondary name;
// auto-created intermediates reuse the primary name as a placeholder.
// The whole walk runs in one transaction, so a failed insert leaves no
// orphaned segments behind.
func (s *catalogService) ResolveCategoryPath(ctx context.Context, path string, parentID *uuid.UUID, secondaryName string) (*models.Category, error) {
	var segments []string
	for _, raw := range strings.Split(path, "/") {
		if segment := strings.TrimSpace(raw); segment != "" {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return nil, ErrEmptyPath
	}

	var resolved *models.Category
	err := s.categoryRepo.InTx(ctx, func(repo repositories.CategoryRepository) error {
		currentParent := parentID
		for i, segment := range segments {
			existing, err := repo.FindActiveByNameAndParent(ctx, segment, currentParent)
			switch {
			case err == nil:
				resolved = existing
			case errors.Is(err, repositories.ErrCategoryNotFound):
				secondary := segment
				if i == len(segments)-1 && secondaryName != "" {
					secondary = secondaryName
				}
				created := &models.Category{
					NamePrimary:   segment,
					NameSecondary: secondary,
					ParentID:      currentParent,
					IsActive:      true,
				}
				if err := repo.Create(ctx, created); err != nil {
					return fmt.Errorf("create category segment %q: %w", segment, err)
				}
				resolved = created
			default:
				return fmt.Errorf("lookup category segment %q: %w", segment, err)
			}
			currentParent = &resolved.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateCategoryTree(ctx); err != nil {
		s.logger.Warn("category tree cache invalidation failed", zap.Error(err))
	}
	return resolved, nil
}

func (s *catalogService) SetCategoryIcon(ctx context.Context, id uuid.UUID, url string) error {
	if err := s.categoryRepo.SetIconURL(ctx, id, url); err != nil {
		return err
	}
	if err := s.cache.InvalidateCategoryTree(ctx); err != nil {
		s.logger.Warn("category tree cache invalidation failed", zap.Error(err))
	}
	return nil
}

func (s *catalogService) DeactivateCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	if err := s.cache.InvalidateCategoryTree(ctx); err != nil {
		s.logger.Warn("category tree cache invalidation failed", zap.Error(err))
	}
	return nil
}
