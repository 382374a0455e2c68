// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package mirror

import (
	context "context"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockWriteSource is a mock of WriteSource interface.
type MockWriteSource struct {
	ctrl     *gomock.Controller
	recorder *MockWriteSourceMockRecorder
}

// MockWriteSourceMockRecorder is the mock recorder for MockWriteSource.
type MockWriteSourceMockRecorder struct {
	mock *MockWriteSource
}

// NewMockWriteSource creates a new mock instance.
func NewMockWriteSource(ctrl *gomock.Controller) *MockWriteSource {
	mock := &MockWriteSource{ctrl: ctrl}
	mock.recorder = &MockWriteSourceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockWriteSource) EXPECT() *MockWriteSourceMockRecorder {
	return m.recorder
}

// WritesSince mocks base method.
func (m *MockWriteSource) WritesSince(ctx context.Context, position uint64) ([]Write, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WritesSince", ctx, position)
	ret0, _ := ret[0].([]Write)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// WritesSince indicates an expected call of WritesSince.
func (mr *MockWriteSourceMockRecorder) WritesSince(ctx, position any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WritesSince", reflect.TypeOf((*MockWriteSource)(nil).WritesSince), ctx, position)
}
