package search

// bodyOf unwraps {"body": ...} parameters; anything else is the body itself.
func bodyOf(params Query) Query {
	if params == nil {
		return Query{}
	}
	switch b := params["body"].(type) {
	case Query:
		return b
	case map[string]any:
		return Query(b)
	}
	return params
}

// clone returns a shallow copy so top-level edits never reach the caller.
func (q Query) clone() Query {
	c := make(Query, len(q)+2)
	for k, v := range q {
		c[k] = v
	}
	return c
}

func (q Query) without(keys ...string) Query {
	c := q.clone()
	for _, k := range keys {
		delete(c, k)
	}
	return c
}

func (q Query) withRange(from, size int) Query {
	c := q.clone()
	c["from"] = from
	c["size"] = size
	return c
}

// forCount strips the fields counting ignores.
func (q Query) forCount() Query {
	return q.without("from", "size", "sort")
}
