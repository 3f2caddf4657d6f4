package shift

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/redis/go-redis/v9"
)

type ShiftServiceImpl struct {
	shift.PolicyRepository
	shift.AssignmentRepository
	employee.Directory

	// cache is optional; nil disables shift-resolution caching entirely.
	cache    *redis.Client
	cacheTTL time.Duration
}

func policyToResponse(p shift.Policy) shift.PolicyResponse {
	return shift.PolicyResponse{
		ID:                             p.ID,
		Name:                           p.Name,
		Code:                           p.Code,
		StartTime:                      p.StartTime,
		EndTime:                        p.EndTime,
		GracePeriodMinutes:             p.GracePeriodMinutes,
		EarlyDepartureThresholdMinutes: p.EarlyDepartureThresholdMinutes,
		OvertimeStartAfterMinutes:      p.OvertimeStartAfterMinutes,
		MinimumWorkMinutes:             p.MinimumWorkMinutes,
		HalfDayThresholdMinutes:        p.HalfDayThresholdMinutes,
		BreakMinutes:                   p.BreakMinutes,
		IsNightShift:                   p.IsNightShift,
		CreatedAt:                      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                      p.UpdatedAt.Format(time.RFC3339),
	}
}

func assignmentToResponse(a shift.Assignment) shift.AssignmentResponse {
	resp := shift.AssignmentResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		ShiftPolicyID: a.ShiftPolicyID,
		PolicyName:    a.PolicyName,
		PolicyCode:    a.PolicyCode,
		EffectiveFrom: a.EffectiveFrom.Format("2006-01-02"),
		IsActive:      a.IsActive,
	}
	if a.EffectiveTo != nil {
		to := a.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &to
	}
	return resp
}

// CreatePolicy implements shift.Service.
func (s *ShiftServiceImpl) CreatePolicy(ctx context.Context, actor auth.Context, req shift.CreatePolicyRequest) (shift.PolicyResponse, error) {
	if !actor.IsAdministrative() {
		return shift.PolicyResponse{}, auth.ErrAdminRequired
	}
	if err := req.Validate(); err != nil {
		return shift.PolicyResponse{}, err
	}

	existing, err := s.PolicyRepository.GetByCode(ctx, req.Code)
	if err != nil {
		return shift.PolicyResponse{}, fmt.Errorf("failed to check policy code: %w", err)
	}
	if existing != nil {
		return shift.PolicyResponse{}, shift.ErrPolicyCodeExists
	}

	policy := shift.Policy{
		Name:                           req.Name,
		Code:                           req.Code,
		StartTime:                      req.StartTime,
		EndTime:                        req.EndTime,
		GracePeriodMinutes:             req.GracePeriodMinutes,
		EarlyDepartureThresholdMinutes: req.EarlyDepartureThresholdMinutes,
		OvertimeStartAfterMinutes:      req.OvertimeStartAfterMinutes,
		MinimumWorkMinutes:             req.MinimumWorkMinutes,
		HalfDayThresholdMinutes:        req.HalfDayThresholdMinutes,
		BreakMinutes:                   req.BreakMinutes,
		IsNightShift:                   req.IsNightShift,
	}

	created, err := s.PolicyRepository.Create(ctx, policy)
	if err != nil {
		return shift.PolicyResponse{}, err
	}

	return policyToResponse(created), nil
}

// UpdatePolicy implements shift.Service. Changes apply prospectively only:
// records already derived keep the values they were computed with.
func (s *ShiftServiceImpl) UpdatePolicy(ctx context.Context, actor auth.Context, req shift.UpdatePolicyRequest) (shift.PolicyResponse, error) {
	if !actor.IsAdministrative() {
		return shift.PolicyResponse{}, auth.ErrAdminRequired
	}
	if err := req.Validate(); err != nil {
		return shift.PolicyResponse{}, err
	}

	policy, err := s.PolicyRepository.GetByID(ctx, req.ID)
	if err != nil {
		return shift.PolicyResponse{}, err
	}

	if req.Name != nil {
		policy.Name = *req.Name
	}
	if req.StartTime != nil {
		policy.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		policy.EndTime = *req.EndTime
	}
	if req.GracePeriodMinutes != nil {
		policy.GracePeriodMinutes = *req.GracePeriodMinutes
	}
	if req.EarlyDepartureThresholdMinutes != nil {
		policy.EarlyDepartureThresholdMinutes = *req.EarlyDepartureThresholdMinutes
	}
	if req.OvertimeStartAfterMinutes != nil {
		policy.OvertimeStartAfterMinutes = *req.OvertimeStartAfterMinutes
	}
	if req.MinimumWorkMinutes != nil {
		policy.MinimumWorkMinutes = *req.MinimumWorkMinutes
	}
	if req.HalfDayThresholdMinutes != nil {
		policy.HalfDayThresholdMinutes = *req.HalfDayThresholdMinutes
	}
	if req.BreakMinutes != nil {
		policy.BreakMinutes = *req.BreakMinutes
	}
	if req.IsNightShift != nil {
		policy.IsNightShift = *req.IsNightShift
	}

	if err := s.PolicyRepository.Update(ctx, policy); err != nil {
		return shift.PolicyResponse{}, err
	}

	// Cached resolutions embed whole policies; the TTL bounds how long a
	// stale copy can survive a policy update.

	return policyToResponse(policy), nil
}

// GetPolicy implements shift.Service.
func (s *ShiftServiceImpl) GetPolicy(ctx context.Context, id string) (shift.PolicyResponse, error) {
	policy, err := s.PolicyRepository.GetByID(ctx, id)
	if err != nil {
		return shift.PolicyResponse{}, err
	}
	return policyToResponse(policy), nil
}

// ListPolicies implements shift.Service.
func (s *ShiftServiceImpl) ListPolicies(ctx context.Context) ([]shift.PolicyResponse, error) {
	policies, err := s.PolicyRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]shift.PolicyResponse, 0, len(policies))
	for _, p := range policies {
		responses = append(responses, policyToResponse(p))
	}
	return responses, nil
}

// AssignShift implements shift.Service.
func (s *ShiftServiceImpl) AssignShift(ctx context.Context, actor auth.Context, req shift.AssignShiftRequest) (shift.AssignmentResponse, error) {
	if !actor.IsAdministrative() {
		return shift.AssignmentResponse{}, auth.ErrAdminRequired
	}
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	if _, err := s.Directory.GetByID(ctx, req.EmployeeID); err != nil {
		return shift.AssignmentResponse{}, err
	}
	if _, err := s.PolicyRepository.GetByID(ctx, req.ShiftPolicyID); err != nil {
		return shift.AssignmentResponse{}, err
	}

	effectiveFrom, _ := time.Parse("2006-01-02", req.EffectiveFrom)
	assignment := shift.Assignment{
		EmployeeID:    req.EmployeeID,
		ShiftPolicyID: req.ShiftPolicyID,
		EffectiveFrom: effectiveFrom,
	}
	if req.EffectiveTo != nil {
		effectiveTo, _ := time.Parse("2006-01-02", *req.EffectiveTo)
		assignment.EffectiveTo = &effectiveTo
	}

	created, err := s.AssignmentRepository.Assign(ctx, assignment)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	s.invalidateEmployeeCache(ctx, req.EmployeeID)

	return assignmentToResponse(created), nil
}

// ListAssignments implements shift.Service.
func (s *ShiftServiceImpl) ListAssignments(ctx context.Context, employeeID string) ([]shift.AssignmentResponse, error) {
	assignments, err := s.AssignmentRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]shift.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, assignmentToResponse(a))
	}
	return responses, nil
}

func shiftCacheKey(employeeID string, date time.Time) string {
	return fmt.Sprintf("shift_resolution_%s_%s", employeeID, date.Format("2006-01-02"))
}

// ResolveActiveShift implements shift.Service.
func (s *ShiftServiceImpl) ResolveActiveShift(ctx context.Context, employeeID string, date time.Time) (*shift.Policy, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, shiftCacheKey(employeeID, date)).Result()
		if err == nil {
			var policy shift.Policy
			if err := json.Unmarshal([]byte(cached), &policy); err == nil {
				return &policy, nil
			}
		} else if err != redis.Nil {
			slog.Warn("shift cache read failed", "employee_id", employeeID, "error", err)
		}
	}

	assignment, err := s.AssignmentRepository.GetActiveForDate(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, shift.ErrNoActiveShift
	}

	policy, err := s.PolicyRepository.GetByID(ctx, assignment.ShiftPolicyID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(policy); err == nil {
			if err := s.cache.Set(ctx, shiftCacheKey(employeeID, date), payload, s.cacheTTL).Err(); err != nil {
				slog.Warn("shift cache write failed", "employee_id", employeeID, "error", err)
			}
		}
	}

	return &policy, nil
}

// invalidateEmployeeCache drops cached resolutions around today for one
// employee after a reassignment.
func (s *ShiftServiceImpl) invalidateEmployeeCache(ctx context.Context, employeeID string) {
	if s.cache == nil {
		return
	}
	today := time.Now().UTC()
	keys := make([]string, 0, 3)
	for d := -1; d <= 1; d++ {
		keys = append(keys, shiftCacheKey(employeeID, today.AddDate(0, 0, d)))
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("shift cache invalidation failed", "employee_id", employeeID, "error", err)
	}
}

func NewShiftService(
	policyRepo shift.PolicyRepository,
	assignmentRepo shift.AssignmentRepository,
	directory employee.Directory,
	cache *redis.Client,
	cacheTTL time.Duration,
) shift.Service {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &ShiftServiceImpl{
		PolicyRepository:     policyRepo,
		AssignmentRepository: assignmentRepo,
		Directory:            directory,
		cache:                cache,
		cacheTTL:             cacheTTL,
	}
}
