package terminal

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/coroview/coroview/pkg/config"
)

func configureCmd(t *Term, args string) error {
	switch args {
	case "-list":
		return configureList(t)
	case "-save":
		return config.SaveConfig(t.conf)
	case "":
		return errors.New("wrong number of arguments to \"config\"")
	default:
		return configureSet(t, args)
	}
}

func configureList(t *Term) error {
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)

	val := reflect.ValueOf(t.conf).Elem()
	for i := 0; i < val.NumField(); i++ {
		fieldName := fieldTag(val.Type().Field(i))
		if fieldName == "" || fieldName == "aliases" {
			continue
		}
		fmt.Fprintf(w, "%s\t%v\n", fieldName, val.Field(i).Interface())
	}
	return w.Flush()
}

func configureSet(t *Term, args string) error {
	v := strings.SplitN(args, " ", 2)
	if len(v) != 2 {
		return errors.New("wrong number of arguments to \"config\"")
	}
	cfgname, rest := v[0], strings.TrimSpace(v[1])

	field := configureFindFieldByName(t.conf, cfgname)
	if !field.CanAddr() {
		return fmt.Errorf("unknown configuration parameter %q", cfgname)
	}

	switch field.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(rest)
		if err != nil {
			return fmt.Errorf("argument to %q must be true or false", cfgname)
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return fmt.Errorf("argument to %q must be a number", cfgname)
		}
		field.SetInt(n)
	case reflect.String:
		field.SetString(rest)
	default:
		return fmt.Errorf("cannot set %q", cfgname)
	}
	return nil
}

// configureFindFieldByName returns the configuration field matching the
// yaml tag name, or a zero Value.
func configureFindFieldByName(conf *config.Config, name string) reflect.Value {
	val := reflect.ValueOf(conf).Elem()
	for i := 0; i < val.NumField(); i++ {
		if fieldTag(val.Type().Field(i)) == name {
			return val.Field(i)
		}
	}
	return reflect.Value{}
}

func fieldTag(field reflect.StructField) string {
	tag := field.Tag.Get("yaml")
	if comma := strings.Index(tag, ","); comma >= 0 {
		tag = tag[:comma]
	}
	return tag
}
