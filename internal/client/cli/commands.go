package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/growthjournal/internal/client/services"
	"github.com/dmitrijs2005/growthjournal/internal/client/syncer"
	"github.com/dmitrijs2005/growthjournal/internal/models"
)

func enumNames[T ~string](values ...T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) printResult(res *syncer.Result) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tPUSHED\tPULLED\tDELETED\tFAILED")
	for _, tr := range res.Types {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", tr.Entity, tr.Pushed, tr.Pulled, tr.Deleted, tr.Failed)
	}
	_ = w.Flush()
	for _, tr := range res.Types {
		for _, f := range tr.Failures {
			fmt.Fprintln(a.out, "  failed:", f)
		}
	}
}

func (a *App) Status(ctx context.Context) error {
	mode := "offline"
	if a.sync.Online() {
		mode = "online"
	}
	fmt.Fprintf(a.out, "user %s, %s, server %s\n", a.journal.UserID(), mode, a.config.ServerEndpointAddr)

	res, err := a.sync.LastResult()
	switch {
	case res == nil && err == nil:
		fmt.Fprintln(a.out, "no sync yet")
	case res == nil:
		fmt.Fprintln(a.out, "last sync failed:", err)
	default:
		fmt.Fprintf(a.out, "last sync %s: %s\n", res.FinishedAt.Format("2006-01-02 15:04:05"), res)
		if err != nil {
			fmt.Fprintln(a.out, "interrupted:", err)
		}
	}
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	res, err := a.sync.SyncNow(ctx)
	if res != nil {
		a.printResult(res)
	}
	return err
}

func (a *App) Children(ctx context.Context) error {
	children, err := a.journal.Children(ctx)
	if err != nil {
		return err
	}
	if len(children) == 0 {
		fmt.Fprintln(a.out, "no children yet, use add-child")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBORN\tGENDER\tSYNCED")
	for _, c := range children {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", c.ID, c.Name, c.BirthDate, c.Gender, c.Synced)
	}
	return w.Flush()
}

func (a *App) AddChild(ctx context.Context) error {
	name, err := a.ask("Name")
	if err != nil {
		return err
	}
	born, err := GetDate(a.reader, "Birth date", a.out, a.now())
	if err != nil {
		return err
	}
	gender, err := GetChoice(a.reader, "Gender", a.out, enumNames(models.GenderFemale, models.GenderMale, models.GenderOther))
	if err != nil {
		return err
	}
	c, err := a.journal.CreateChild(ctx, models.Child{Name: name, BirthDate: born, Gender: models.Gender(gender)})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "child added:", c.ID)
	return nil
}

func (a *App) AddDiary(ctx context.Context) error {
	childID, err := a.ask("Child id")
	if err != nil {
		return err
	}
	title, err := a.ask("Title")
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Text", a.out)
	if err != nil {
		return err
	}
	date, err := GetDate(a.reader, "Date", a.out, a.now())
	if err != nil {
		return err
	}
	mediaIDs, err := GetList(a.reader, "Media ids", a.out)
	if err != nil {
		return err
	}
	d, err := a.journal.AddDiary(ctx, models.Diary{ChildID: childID, Title: title, Content: content, Date: date, MediaIDs: mediaIDs})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "diary entry added:", d.ID)
	return nil
}

func (a *App) AddGrowth(ctx context.Context) error {
	childID, err := a.ask("Child id")
	if err != nil {
		return err
	}
	g := models.GrowthRecord{ChildID: childID}
	if g.Height, err = GetOptionalFloat(a.reader, "Height, cm", a.out); err != nil {
		return err
	}
	if g.Weight, err = GetOptionalFloat(a.reader, "Weight, kg", a.out); err != nil {
		return err
	}
	if g.HeadCircumference, err = GetOptionalFloat(a.reader, "Head circumference, cm", a.out); err != nil {
		return err
	}
	if g.RecordedAt, err = GetDate(a.reader, "Measured on", a.out, a.now()); err != nil {
		return err
	}
	if g.Notes, err = a.ask("Notes"); err != nil {
		return err
	}
	g, err = a.journal.AddGrowthRecord(ctx, g)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "growth record added:", g.ID)
	return nil
}

func (a *App) AddEvent(ctx context.Context) error {
	childID, err := a.ask("Child id")
	if err != nil {
		return err
	}
	e := models.Event{ChildID: childID}
	typ, err := GetChoice(a.reader, "Type", a.out,
		enumNames(models.EventBirthday, models.EventFirstStep, models.EventCeremony, models.EventCustom))
	if err != nil {
		return err
	}
	e.Type = models.EventType(typ)
	if e.Title, err = a.ask("Title"); err != nil {
		return err
	}
	if e.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if e.EventDate, err = GetDate(a.reader, "Date", a.out, a.now()); err != nil {
		return err
	}
	if e.MediaIDs, err = GetList(a.reader, "Media ids", a.out); err != nil {
		return err
	}
	e, err = a.journal.AddEvent(ctx, e)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "event added:", e.ID)
	return nil
}

func (a *App) AddMilestone(ctx context.Context) error {
	childID, err := a.ask("Child id")
	if err != nil {
		return err
	}
	m := models.Milestone{ChildID: childID}
	typ, err := GetChoice(a.reader, "Type", a.out,
		enumNames(models.MilestoneMotor, models.MilestoneLanguage, models.MilestoneSocial, models.MilestoneCognitive))
	if err != nil {
		return err
	}
	m.Type = models.MilestoneType(typ)
	if m.Title, err = a.ask("Title"); err != nil {
		return err
	}
	if m.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if m.AchievedAt, err = GetDate(a.reader, "Achieved on", a.out, a.now()); err != nil {
		return err
	}
	if m.MediaIDs, err = GetList(a.reader, "Media ids", a.out); err != nil {
		return err
	}
	m, err = a.journal.AddMilestone(ctx, m)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "milestone added:", m.ID)
	return nil
}

func (a *App) AddMedia(ctx context.Context) error {
	childID, err := a.ask("Child id")
	if err != nil {
		return err
	}
	path, err := a.ask("File path")
	if err != nil {
		return err
	}
	if path != "" {
		if path, err = filepath.Abs(path); err != nil {
			return err
		}
	}
	typ, err := GetChoice(a.reader, "Type", a.out, enumNames(models.MediaPhoto, models.MediaVideo, models.MediaEcho))
	if err != nil {
		return err
	}
	caption, err := a.ask("Caption")
	if err != nil {
		return err
	}
	m, err := a.journal.AddMedia(ctx, models.Media{ChildID: childID, LocalPath: path, Type: models.MediaType(typ), Caption: caption})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "media added:", m.ID, "(uploaded on next sync)")
	return nil
}

func (a *App) confirm(prompt string) (bool, error) {
	s, err := a.ask(prompt + " [y/N]")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(s, "y") || strings.EqualFold(s, "yes"), nil
}

func (a *App) reportDelete(ctx context.Context, err error) error {
	if errors.Is(err, services.ErrPartialDelete) {
		fmt.Fprintln(a.out, "deleted locally; the server copy will be removed on the next sync")
		a.log.Warn(ctx, "remote delete pending", "error", err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted")
	return nil
}

func (a *App) DeleteChild(ctx context.Context) error {
	id, err := a.ask("Child id")
	if err != nil {
		return err
	}
	ok, err := a.confirm("Delete the child and everything recorded for it?")
	if err != nil || !ok {
		return err
	}
	return a.reportDelete(ctx, a.journal.DeleteChild(ctx, id))
}

func (a *App) Delete(ctx context.Context) error {
	kinds := enumNames(models.ChildScoped...)
	kind, err := GetChoice(a.reader, "Record type", a.out, kinds)
	if err != nil {
		return err
	}
	id, err := a.ask("Record id")
	if err != nil {
		return err
	}
	return a.reportDelete(ctx, a.journal.DeleteEntity(ctx, models.EntityType(kind), id))
}
