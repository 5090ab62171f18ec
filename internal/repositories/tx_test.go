package repositories

import (
	"context"
	"errors"
	"testing"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TxManagerTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	manager TxManager
	context context.Context
}

func (suite *TxManagerTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.manager = NewTxManager(mock)
	suite.context = context.Background()
}

func (suite *TxManagerTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTxManagerTestSuite(t *testing.T) {
	suite.Run(t, new(TxManagerTestSuite))
}

func (suite *TxManagerTestSuite) TestWithTx_CommitsOnSuccess() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectCommit()
	suite.mock.ExpectRollback() // deferred rollback after commit is a no-op

	called := false
	err := suite.manager.WithTx(suite.context, func(tx pgx.Tx) error {
		called = true
		return nil
	})

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), called)
}

func (suite *TxManagerTestSuite) TestWithTx_RollsBackOnError() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectRollback()

	boom := errors.New("insufficient stock")
	err := suite.manager.WithTx(suite.context, func(tx pgx.Tx) error {
		return boom
	})

	assert.ErrorIs(suite.T(), err, boom)
}

func (suite *TxManagerTestSuite) TestWithTx_BeginFailure() {
	suite.mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	err := suite.manager.WithTx(suite.context, func(tx pgx.Tx) error {
		suite.T().Fatal("fn must not run when begin fails")
		return nil
	})

	assert.Error(suite.T(), err)
}
