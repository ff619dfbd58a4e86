package orm

// Decode 把一行数据写回 dst，dst 必须是结构体指针
// 列名按照 schema 里面的 Column 匹配
func (e *Engine) Decode(row Row, dst any) error {
	if err := checkRecord(dst); err != nil {
		return err
	}
	s, err := e.r.Get(dst)
	if err != nil {
		return err
	}
	return e.valCreator(dst, s).SetColumns(row)
}

// Scan decodes rows into new values of T.
//
//	rows, err := e.Table("user").Where("age", ">", 18).Select(ctx)
//	users, err := orm.Scan[User](e, rows)
func Scan[T any](e *Engine, rows []Row) ([]*T, error) {
	res := make([]*T, 0, len(rows))
	for _, row := range rows {
		t := new(T)
		if err := e.Decode(row, t); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}
