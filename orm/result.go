package orm

import "database/sql"

// Result 对 sql.Result 的封装，执行出错的时候两个方法都返回这个错误
type Result struct {
	err error
	res sql.Result
}

func newResult(qr *QueryResult) Result {
	res := Result{err: qr.Err}
	if r, ok := qr.Result.(sql.Result); ok {
		res.res = r
	}
	return res
}

// LastInsertId 重新 database sql 的 Result 方法 做一层拦截
func (r Result) LastInsertId() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.res == nil {
		return 0, nil
	}
	return r.res.LastInsertId()
}

func (r Result) RowsAffected() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.res == nil {
		return 0, nil
	}
	return r.res.RowsAffected()
}

func (r Result) Err() error {
	return r.err
}
