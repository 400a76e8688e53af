package compiler

// identifierType classifies a completed identifier lexeme. It dispatches on
// the first one or two bytes and then compares the remaining suffix exactly,
// so "print" is TokenPrint while "printer" and "prin" are identifiers.
func identifierType(lexeme string) TokenType {
	if lexeme == "" {
		return TokenIdentifier
	}

	switch lexeme[0] {
	case 'a':
		return checkKeyword(lexeme, 1, "nd", TokenAnd)
	case 'c':
		return checkKeyword(lexeme, 1, "lass", TokenClass)
	case 'e':
		return checkKeyword(lexeme, 1, "lse", TokenElse)
	case 'i':
		return checkKeyword(lexeme, 1, "f", TokenIf)
	case 'n':
		return checkKeyword(lexeme, 1, "il", TokenNil)
	case 'o':
		return checkKeyword(lexeme, 1, "r", TokenOr)
	case 'p':
		return checkKeyword(lexeme, 1, "rint", TokenPrint)
	case 'r':
		return checkKeyword(lexeme, 1, "eturn", TokenReturn)
	case 's':
		return checkKeyword(lexeme, 1, "uper", TokenSuper)
	case 'v':
		return checkKeyword(lexeme, 1, "ar", TokenVar)
	case 'w':
		return checkKeyword(lexeme, 1, "hile", TokenWhile)
	case 'f':
		if len(lexeme) > 1 {
			switch lexeme[1] {
			case 'a':
				return checkKeyword(lexeme, 2, "lse", TokenFalse)
			case 'o':
				return checkKeyword(lexeme, 2, "r", TokenFor)
			case 'u':
				return checkKeyword(lexeme, 2, "n", TokenFun)
			}
		}
	case 't':
		if len(lexeme) > 1 {
			switch lexeme[1] {
			case 'h':
				return checkKeyword(lexeme, 2, "is", TokenThis)
			case 'r':
				return checkKeyword(lexeme, 2, "ue", TokenTrue)
			}
		}
	}
	return TokenIdentifier
}

// checkKeyword returns typ when lexeme is exactly start bytes of prefix
// followed by rest.
func checkKeyword(lexeme string, start int, rest string, typ TokenType) TokenType {
	if len(lexeme) == start+len(rest) && lexeme[start:] == rest {
		return typ
	}
	return TokenIdentifier
}
