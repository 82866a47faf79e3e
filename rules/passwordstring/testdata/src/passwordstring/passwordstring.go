package passwordstring

type Secret string

var dbPassword = "hunter2" // want `variable "dbPassword" looks like it stores a password in a string`

var auth string // want `variable "auth" looks like it stores a password in a string`

// Neither an exact match nor a string.
var author, passwordCount = "me", 3

func login(user string, loginPass string, pswd Secret) bool { // want `parameter "loginPass" looks like` `parameter "pswd" looks like`
	secretKey := user + loginPass // want `variable "secretKey" looks like`
	var mdp, other string         // want `variable "mdp" looks like`
	mdp, other = string(pswd), secretKey
	check := func(passPhrase string) bool { // want `parameter "passPhrase" looks like`
		return passPhrase == mdp
	}
	passwordBytes := []byte(other)
	return check(other) && len(passwordBytes) > 0
}

type Credentials struct {
	Password string
}

func (c Credentials) Empty() bool {
	return c.Password == ""
}
