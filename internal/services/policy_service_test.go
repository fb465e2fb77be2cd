package services

import (
	"errors"
	"testing"

	"github.com/you/guardianauth/internal/mocks"
)

func TestPolicyServiceImpl_AddPolicy(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*mocks.MockCasbinEnforcer)
		wantErr    bool
	}{
		{
			name: "add and persist",
			setupMocks: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
					if len(params) != 3 {
						t.Errorf("expected 3 params, got %d", len(params))
					}
					return true, nil
				}
			},
			wantErr: false,
		},
		{
			name: "enforcer add fails",
			setupMocks: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.AddPolicyFunc = func(params ...interface{}) (bool, error) {
					return false, errors.New("adapter error")
				}
			},
			wantErr: true,
		},
		{
			name: "save fails",
			setupMocks: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.SavePolicyFunc = func() error {
					return errors.New("save error")
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enforcer := mocks.NewMockCasbinEnforcer()
			tt.setupMocks(enforcer)

			policySvc := NewPolicyServiceWithEnforcer(enforcer)
			err := policySvc.AddPolicy("admin", "/auth/users", "GET")
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestPolicyServiceImpl_RemovePolicy(t *testing.T) {
	var removed []interface{}
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.RemovePolicyFunc = func(params ...interface{}) (bool, error) {
		removed = params
		return true, nil
	}

	policySvc := NewPolicyServiceWithEnforcer(enforcer)
	if err := policySvc.RemovePolicy("admin", "/auth/users", "DELETE"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(removed) != 3 || removed[0] != "admin" {
		t.Errorf("unexpected removal params %v", removed)
	}
}

func TestPolicyServiceImpl_CheckPermission(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
		return rvals[0] == "admin", nil
	}

	policySvc := NewPolicyServiceWithEnforcer(enforcer)

	allowed, err := policySvc.CheckPermission("admin", "/auth/users", "GET")
	if err != nil || !allowed {
		t.Errorf("expected admin allowed, got %v %v", allowed, err)
	}
	allowed, err = policySvc.CheckPermission("investor", "/auth/users", "GET")
	if err != nil || allowed {
		t.Errorf("expected investor denied, got %v %v", allowed, err)
	}
}

func TestPolicyServiceImpl_GetPolicies(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.GetPolicyFunc = func() ([][]string, error) {
		return [][]string{{"admin", "/auth/users", "GET"}}, nil
	}

	policySvc := NewPolicyServiceWithEnforcer(enforcer)
	policies := policySvc.GetPolicies()
	if len(policies) != 1 || policies[0][1] != "/auth/users" {
		t.Errorf("unexpected policies %v", policies)
	}
}
